package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/errors"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/ratelimit"
	"tweetharvest/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a client config pointed at a test server
func testConfig(baseURL string) *config.TwitterConfig {
	return &config.TwitterConfig{
		ConsumerKey:       "test-consumer-key",
		ConsumerSecret:    "test-consumer-secret",
		AccessToken:       "test-access-token",
		AccessSecret:      "test-access-secret",
		BaseURL:           baseURL,
		RequestTimeout:    30 * time.Second,
		AutoWaitRateLimit: true,
	}
}

const searchPageBody = `{
	"statuses": [
		{
			"created_at": "Tue May 28 09:21:14 +0000 2019",
			"id": 1133315519700291584,
			"id_str": "1133315519700291584",
			"full_text": "RT @someone: morning espresso\nis the best espresso",
			"user": {
				"id": 42,
				"id_str": "42",
				"screen_name": "coffeelover",
				"followers_count": 1234
			},
			"place": {
				"id": "01a9a39529b27f36",
				"place_type": "city",
				"name": "Manhattan",
				"full_name": "Manhattan, NY",
				"country_code": "US",
				"country": "United States"
			},
			"retweet_count": 7,
			"favorite_count": 3,
			"lang": "en"
		},
		{
			"created_at": "Tue May 28 09:20:02 +0000 2019",
			"id": 1133315519700291000,
			"id_str": "1133315519700291000",
			"full_text": "plain brew, no location",
			"user": {
				"id": 43,
				"id_str": "43",
				"screen_name": "teadrinker",
				"followers_count": 5
			},
			"place": null,
			"retweet_count": 0,
			"favorite_count": 1,
			"lang": "en"
		}
	],
	"search_metadata": {
		"max_id": 1133315519700291584,
		"count": 100,
		"query": "espresso"
	}
}`

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("defaults", func(t *testing.T) {
		client := NewClient(testConfig(""), log)

		assert.NotNil(t, client)
		assert.NotNil(t, client.httpClient)
		assert.NotNil(t, client.window)
		assert.NotNil(t, client.backoff)
		assert.Equal(t, BaseURL, client.baseURL)
		assert.Equal(t, log, client.logger)
		assert.True(t, client.autoWait)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client := NewClient(testConfig("http://localhost:9999/1.1/"), log)
		assert.Equal(t, "http://localhost:9999/1.1", client.baseURL)
	})
}

func TestSearchRequestParameters(t *testing.T) {
	log := logger.NewTestLogger()

	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statuses": []}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), log)

	_, err := client.Search(context.Background(), SearchParams{
		Query: "espresso OR latte",
		Lang:  "en",
		MaxID: 1133315519700291583,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, SearchEndpoint, captured.URL.Path)

	query := captured.URL.Query()
	assert.Equal(t, "espresso OR latte", query.Get("q"))
	assert.Equal(t, "en", query.Get("lang"))
	assert.Equal(t, "100", query.Get("count"))
	assert.Equal(t, "false", query.Get("include_entities"))
	assert.Equal(t, "extended", query.Get("tweet_mode"))
	assert.Equal(t, "1133315519700291583", query.Get("max_id"))

	// Requests are OAuth1 signed
	assert.Contains(t, captured.Header.Get("Authorization"), "OAuth")
	assert.Contains(t, captured.Header.Get("Authorization"), "test-consumer-key")
}

func TestSearch(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("successful page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(ratelimit.HeaderRemaining, "179")
			w.Header().Set(ratelimit.HeaderReset, strconv.FormatInt(time.Now().Add(15*time.Minute).Unix(), 10))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(searchPageBody))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), log)

		tweets, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
		require.NoError(t, err)
		require.Len(t, tweets, 2)

		first := tweets[0]
		assert.Equal(t, int64(1133315519700291584), first.ID)
		assert.Equal(t, "RT @someone: morning espresso\nis the best espresso", first.FullText)
		assert.Equal(t, "coffeelover", first.User.ScreenName)
		assert.Equal(t, int64(42), first.User.ID)
		assert.Equal(t, 1234, first.User.FollowersCount)
		require.NotNil(t, first.Place)
		assert.Equal(t, "Manhattan", first.Place.Name)
		assert.Equal(t, "United States", first.Place.Country)

		assert.Nil(t, tweets[1].Place)

		assert.Equal(t, 179, client.RateLimitRemaining())
	})

	t.Run("empty page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"statuses": []}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), log)

		tweets, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
		require.NoError(t, err)
		assert.Empty(t, tweets)
	})

	t.Run("missing parameters", func(t *testing.T) {
		client := NewClient(testConfig("http://localhost:9999"), log)

		tweets, err := client.Search(context.Background(), SearchParams{Lang: "en"})
		assert.Nil(t, tweets)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "requires a query")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), log)

		_, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
		assert.Error(t, err)

		var apiErr *errors.Error
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, errors.ErrorTypeParsing, apiErr.Type)
	})
}

func TestSearchErrorClassification(t *testing.T) {
	log := logger.NewTestLogger()

	tests := []struct {
		name         string
		statusCode   int
		body         string
		expectedType errors.ErrorType
		expectedAPI  int
	}{
		{
			name:         "401 invalid credentials",
			statusCode:   http.StatusUnauthorized,
			body:         `{"errors":[{"code":32,"message":"Could not authenticate you."}]}`,
			expectedType: errors.ErrorTypeAuth,
			expectedAPI:  32,
		},
		{
			name:         "404 unknown endpoint",
			statusCode:   http.StatusNotFound,
			body:         `{"errors":[{"code":34,"message":"Sorry, that page does not exist."}]}`,
			expectedType: errors.ErrorTypeNotFound,
			expectedAPI:  34,
		},
		{
			name:         "500 without envelope",
			statusCode:   http.StatusInternalServerError,
			body:         "Internal Server Error",
			expectedType: errors.ErrorTypeServerError,
			expectedAPI:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), log)

			_, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
			assert.Error(t, err)

			var apiErr *errors.Error
			assert.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.expectedType, apiErr.Type)
			assert.Equal(t, tt.statusCode, apiErr.Code)
			assert.Equal(t, tt.expectedAPI, apiErr.APICode)

			// Nothing but rate limits is retried
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestSearchRateLimitAbsorbed(t *testing.T) {
	log := logger.NewTestLogger()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set(ratelimit.HeaderRemaining, "0")
			w.Header().Set(ratelimit.HeaderReset, strconv.FormatInt(time.Now().Add(-time.Second).Unix(), 10))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(searchPageBody))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), log)
	// Keep the test fast, the window path is covered separately
	client.backoff = &retry.ConstantBackoff{Delay: time.Millisecond}

	hookCalls := 0
	client.SetRateLimitHook(func(wait time.Duration) { hookCalls++ })

	tweets, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
	require.NoError(t, err)
	assert.Len(t, tweets, 2)
	assert.Equal(t, 3, attempts)
	assert.True(t, log.HasMessage("Rate limit hit, waiting for window reset"))
	assert.Equal(t, 2, hookCalls)
}

func TestSearchRateLimitPropagatesWhenDisabled(t *testing.T) {
	log := logger.NewTestLogger()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.AutoWaitRateLimit = false
	client := NewClient(cfg, log)

	_, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)

	var apiErr *errors.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeRateLimit, apiErr.Type)
	assert.Equal(t, errors.APICodeRateLimitExceeded, apiErr.APICode)
}

func TestSearchContextCancellation(t *testing.T) {
	log := logger.NewTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statuses": []}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, SearchParams{Query: "espresso"})
	assert.Error(t, err)
}

func TestSearchUsesPacer(t *testing.T) {
	log := logger.NewTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statuses": []}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), log)

	pacer := &countingPacer{}
	client.SetPacer(pacer)

	_, err := client.Search(context.Background(), SearchParams{Query: "espresso"})
	require.NoError(t, err)
	assert.Equal(t, 1, pacer.waits)
}

// countingPacer records Wait calls without ever blocking
type countingPacer struct {
	waits int
}

func (p *countingPacer) Allow() bool                    { return true }
func (p *countingPacer) Wait(ctx context.Context) error { p.waits++; return nil }
func (p *countingPacer) Reset()                         {}

func TestVerifyCredentials(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("valid credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, VerifyCredentialsEndpoint, r.URL.Path)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id": 42, "screen_name": "coffeelover", "followers_count": 1234}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), log)

		user, err := client.VerifyCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "coffeelover", user.ScreenName)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"code":32,"message":"Could not authenticate you."}]}`))
		}))
		defer server.Close()

		client := NewClient(testConfig(server.URL), log)

		user, err := client.VerifyCredentials(context.Background())
		assert.Nil(t, user)
		assert.Error(t, err)

		var apiErr *errors.Error
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, errors.ErrorTypeAuth, apiErr.Type)
	})
}

func TestWindowBackoff(t *testing.T) {
	t.Run("uses reported window", func(t *testing.T) {
		window := ratelimit.NewWindow()
		window.Update(0, time.Now().Add(10*time.Second))

		backoff := newWindowBackoff(window)
		delay := backoff.NextDelay(1)

		// Window wait plus the safety pad
		assert.Greater(t, delay, 10*time.Second)
		assert.LessOrEqual(t, delay, 13*time.Second)
	})

	t.Run("falls back when window unknown", func(t *testing.T) {
		backoff := newWindowBackoff(ratelimit.NewWindow())
		delay := backoff.NextDelay(1)

		// The fallback starts around a minute
		assert.Greater(t, delay, 30*time.Second)
	})
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "rate limit envelope",
			body:            `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`,
			expectedCode:    88,
			expectedMessage: "Rate limit exceeded",
		},
		{
			name:            "empty envelope",
			body:            `{"errors":[]}`,
			expectedCode:    0,
			expectedMessage: "",
		},
		{
			name:            "not an envelope",
			body:            "<html>Bad Gateway</html>",
			expectedCode:    0,
			expectedMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := parseAPIError([]byte(tt.body))
			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func ExampleBuildSearchTerm() {
	query := BuildSearchTerm("#coffee,#espresso,#latte")
	fmt.Println(query)
	// Output: #coffee OR #espresso OR #latte
}
