package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"tweetharvest/pkg/twitter"
)

// MockSearchServer simulates the v1.1 search endpoint over a fixed
// tweet set. Requests page backward through the set with max_id the
// way the real API does: every response holds the newest pageSize
// statuses whose ID is at or below max_id.
type MockSearchServer struct {
	server   *httptest.Server
	tweets   []twitter.Tweet // sorted newest first
	pageSize int

	requestCount  int32
	rateLimitHits int32

	mu sync.Mutex
	// rateLimitAt returns a 429 for these request numbers (1-based).
	// The retry arrives as a later request number, so a single entry
	// simulates one absorbed window.
	rateLimitAt map[int]bool
	// errorAt returns the given status code for these request numbers.
	errorAt map[int]int
	// maxIDs records the max_id parameter of every search request,
	// zero when the parameter was absent.
	maxIDs []int64

	// verifyUser is served by the account verification endpoint.
	verifyUser twitter.User
}

// NewMockSearchServer starts a mock API over the given tweets, which
// must be sorted by descending ID.
func NewMockSearchServer(tweets []twitter.Tweet, pageSize int) *MockSearchServer {
	m := &MockSearchServer{
		tweets:      tweets,
		pageSize:    pageSize,
		rateLimitAt: make(map[int]bool),
		errorAt:     make(map[int]int),
		verifyUser: twitter.User{
			ID:         981,
			ScreenName: "harvest_bot",
			Name:       "Harvest Bot",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/tweets.json", m.handleSearch)
	mux.HandleFunc("/account/verify_credentials.json", m.handleVerify)

	m.server = httptest.NewServer(mux)
	return m
}

// handleSearch serves one backward page of the tweet set.
func (m *MockSearchServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	n := int(atomic.AddInt32(&m.requestCount, 1))

	var maxID int64
	if v := r.URL.Query().Get("max_id"); v != "" {
		maxID, _ = strconv.ParseInt(v, 10, 64)
	}

	m.mu.Lock()
	m.maxIDs = append(m.maxIDs, maxID)
	rateLimited := m.rateLimitAt[n]
	errorCode := m.errorAt[n]
	m.mu.Unlock()

	if errorCode > 0 {
		m.sendError(w, errorCode)
		return
	}

	if rateLimited {
		atomic.AddInt32(&m.rateLimitHits, 1)
		// Report an exhausted window that resets almost immediately so
		// tests spend no real time waiting it out.
		w.Header().Set("x-rate-limit-limit", "180")
		w.Header().Set("x-rate-limit-remaining", "0")
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{
				{"message": "Rate limit exceeded", "code": 88},
			},
		})
		return
	}

	page := m.page(maxID)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("x-rate-limit-limit", "180")
	w.Header().Set("x-rate-limit-remaining", "170")
	w.Header().Set("x-rate-limit-reset", strconv.FormatInt(time.Now().Add(15*time.Minute).Unix(), 10))
	json.NewEncoder(w).Encode(twitter.SearchResponse{Statuses: page})
}

// handleVerify serves the account verification endpoint.
func (m *MockSearchServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.verifyUser)
}

// page returns the newest pageSize tweets with an ID at or below
// maxID. A zero maxID means no upper bound.
func (m *MockSearchServer) page(maxID int64) []twitter.Tweet {
	page := make([]twitter.Tweet, 0, m.pageSize)
	for _, t := range m.tweets {
		if maxID > 0 && t.ID > maxID {
			continue
		}
		page = append(page, t)
		if len(page) == m.pageSize {
			break
		}
	}
	return page
}

// sendError sends a Twitter error envelope with the given status code.
func (m *MockSearchServer) sendError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{
			{"message": fmt.Sprintf("Simulated failure (%d)", code), "code": 131},
		},
	})
}

// RateLimitRequest makes the nth search request (1-based) fail with a
// 429 before the set is served on the retry.
func (m *MockSearchServer) RateLimitRequest(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitAt[n] = true
}

// FailRequest makes the nth search request return the given status.
func (m *MockSearchServer) FailRequest(n, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorAt[n] = code
}

// MaxIDs returns the max_id parameter of every search request so far,
// in order, zero standing for an absent parameter.
func (m *MockSearchServer) MaxIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.maxIDs))
	copy(out, m.maxIDs)
	return out
}

// RequestCount returns the total number of requests served.
func (m *MockSearchServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// RateLimitHits returns the number of 429 responses served.
func (m *MockSearchServer) RateLimitHits() int {
	return int(atomic.LoadInt32(&m.rateLimitHits))
}

// URL returns the base URL of the mock server.
func (m *MockSearchServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSearchServer) Close() {
	m.server.Close()
}
