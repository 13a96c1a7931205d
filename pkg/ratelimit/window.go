package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Header names used by the Twitter API to report per-window quota.
const (
	HeaderRemaining = "x-rate-limit-remaining"
	HeaderReset     = "x-rate-limit-reset"
	HeaderLimit     = "x-rate-limit-limit"
)

// resetPad is added to window waits so a request issued right at the
// reset boundary does not land inside the old window.
const resetPad = 2 * time.Second

// Window tracks the server-reported rate-limit window for an endpoint.
// It is fed from response headers and answers how long a caller has to
// wait before the quota is replenished.
type Window struct {
	mu        sync.Mutex
	limit     int
	remaining int
	reset     time.Time
	known     bool

	// now is replaceable for tests
	now func() time.Time
}

// NewWindow creates an empty window tracker
func NewWindow() *Window {
	return &Window{now: time.Now}
}

// Update records the quota state reported by the server
func (w *Window) Update(remaining int, reset time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.remaining = remaining
	w.reset = reset
	w.known = true
}

// UpdateFromHeaders reads the x-rate-limit-* headers off a response.
// Responses without the headers leave the window untouched.
func (w *Window) UpdateFromHeaders(h http.Header) {
	remainingStr := h.Get(HeaderRemaining)
	resetStr := h.Get(HeaderReset)
	if remainingStr == "" || resetStr == "" {
		return
	}

	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if limitStr := h.Get(HeaderLimit); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			w.limit = limit
		}
	}
	w.remaining = remaining
	w.reset = time.Unix(resetUnix, 0)
	w.known = true
}

// Exhausted reports whether the server-side quota is spent and the
// window has not yet reset.
func (w *Window) Exhausted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.known && w.remaining <= 0 && w.now().Before(w.reset)
}

// WaitDuration returns how long to sleep before the next request is
// safe, zero when the quota still has room.
func (w *Window) WaitDuration() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.known || w.remaining > 0 {
		return 0
	}

	wait := w.reset.Sub(w.now())
	if wait <= 0 {
		return 0
	}
	return wait + resetPad
}

// Remaining returns the last reported request quota
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.remaining
}

// RetryAfter parses a Retry-After header as a second count
func RetryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Sleep pauses for the given duration or until the context is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
