package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/errors"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/ratelimit"
	"tweetharvest/pkg/retry"

	"github.com/dghubble/oauth1"
)

const defaultUserAgent = "tweetharvest/1.0"

// Client talks to the Twitter v1.1 REST API with OAuth1-signed
// requests. It tracks the server-reported rate-limit window and, when
// configured, sleeps through exhausted windows instead of surfacing
// 429s.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     logger.Logger

	window  *ratelimit.Window
	backoff retry.BackoffStrategy
	// pacer optionally spaces out requests on the client side,
	// independent of the server-reported window.
	pacer    ratelimit.Limiter
	autoWait bool
	// rateLimitHook fires before the client sleeps through a window
	rateLimitHook func(wait time.Duration)
}

// NewClient creates an API client from the given configuration. The
// four OAuth1 credentials sign every request.
func NewClient(cfg *config.TwitterConfig, log logger.Logger) *Client {
	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = cfg.RequestTimeout

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	window := ratelimit.NewWindow()

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		logger:     log,
		window:     window,
		backoff:    newWindowBackoff(window),
		autoWait:   cfg.AutoWaitRateLimit,
	}
}

// SetPacer installs a client-side limiter consulted before every
// request, in addition to the server-reported window.
func (c *Client) SetPacer(p ratelimit.Limiter) {
	c.pacer = p
}

// SetRateLimitHook registers a callback invoked with the wait duration
// whenever the client is about to sleep through a rate-limit window.
func (c *Client) SetRateLimitHook(hook func(wait time.Duration)) {
	c.rateLimitHook = hook
}

// RateLimitRemaining returns the request quota last reported by the
// server for the current window.
func (c *Client) RateLimitRemaining() int {
	return c.window.Remaining()
}

// Search runs one search request and returns the statuses of that
// page. With AutoWaitRateLimit enabled, rate-limit errors are absorbed
// by waiting out the reported window and retrying until the API serves
// the page. Every other error is returned to the caller as is.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Tweet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if !c.autoWait {
		return c.searchOnce(ctx, params)
	}

	return retry.DoWithResult(func() ([]Tweet, error) {
		return c.searchOnce(ctx, params)
	}, &retry.Config{
		MaxAttempts: 0,
		Backoff:     c.backoff,
		RetryIf:     retry.RateLimitOnly,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.logger.WarnWithFields("Rate limit hit, waiting for window reset", map[string]interface{}{
				"endpoint": SearchEndpoint,
				"attempt":  attempt,
				"wait":     delay.String(),
			})
			if c.rateLimitHook != nil {
				c.rateLimitHook(delay)
			}
		},
		Context: ctx,
		Logger:  c.logger,
	})
}

// VerifyCredentials checks the configured credentials against the API
// and returns the authenticated account.
func (c *Client) VerifyCredentials(ctx context.Context) (*User, error) {
	body, err := c.get(ctx, VerifyCredentialsURL(c.baseURL))
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode account response: %v", err),
		}
	}

	return &user, nil
}

// searchOnce performs a single request against the search endpoint.
func (c *Client) searchOnce(ctx context.Context, params SearchParams) ([]Tweet, error) {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Sleep through a window the last response already reported as
	// exhausted rather than burning a request on a guaranteed 429.
	if c.autoWait {
		if wait := c.window.WaitDuration(); wait > 0 {
			c.logger.InfoWithFields("Rate limit window exhausted, sleeping", map[string]interface{}{
				"endpoint": SearchEndpoint,
				"wait":     wait.String(),
			})
			if c.rateLimitHook != nil {
				c.rateLimitHook(wait)
			}
			if err := ratelimit.Sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}

	body, err := c.get(ctx, SearchURL(c.baseURL, params))
	if err != nil {
		return nil, err
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200]
		}
		c.logger.ErrorWithFields("Failed to decode search response", map[string]interface{}{
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode search response: %v", err),
		}
	}

	return response.Statuses, nil
}

// get issues a signed GET request, updates the rate-limit window from
// the response headers and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.DebugWithFields("Sending API request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("API request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration.String(),
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	c.window.UpdateFromHeaders(resp.Header)

	c.logger.DebugWithFields("API request completed", map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL.String(),
		"status_code": resp.StatusCode,
		"duration":    duration.String(),
		"quota_left":  c.window.Remaining(),
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp, body)
	}

	return body, nil
}

// apiError builds a typed error from a non-200 response, pulling the
// Twitter error code out of the body when one is present.
func (c *Client) apiError(resp *http.Response, body []byte) error {
	apiCode, message := parseAPIError(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	errType := errors.ClassifyStatusCode(resp.StatusCode)
	if apiCode == errors.APICodeRateLimitExceeded {
		errType = errors.ErrorTypeRateLimit
	}

	return &errors.Error{
		Type:    errType,
		Message: message,
		Code:    resp.StatusCode,
		APICode: apiCode,
	}
}

// parseAPIError decodes the v1.1 error envelope. Bodies that are not
// the envelope yield a zero code and an empty message.
func parseAPIError(body []byte) (int, string) {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		return 0, ""
	}
	return envelope.Errors[0].Code, envelope.Errors[0].Message
}

// windowBackoff waits out the server-reported window between retries
// and falls back to exponential growth when no reset time is known.
type windowBackoff struct {
	window   *ratelimit.Window
	fallback retry.BackoffStrategy
}

func newWindowBackoff(w *ratelimit.Window) *windowBackoff {
	return &windowBackoff{
		window:   w,
		fallback: retry.NewErrorTypeBackoff().RateLimitBackoff,
	}
}

func (b *windowBackoff) NextDelay(attempt int) time.Duration {
	if wait := b.window.WaitDuration(); wait > 0 {
		return wait
	}
	return b.fallback.NextDelay(attempt)
}

func (b *windowBackoff) Reset() {
	b.fallback.Reset()
}
