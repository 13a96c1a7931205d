// Package ratelimit provides rate limiting functionality for the tweet harvester.
//
// It covers both sides of rate limiting: optional client-side pacing of
// outgoing requests, and tracking of the server-reported search API
// window so exhausted quotas are slept through instead of surfaced.
//
// Available Implementations:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Suitable for burst traffic followed by quiet periods
//   - Used for the optional requests-per-minute pacing
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - More accurate rate limiting over time
//   - Better for consistent request patterns
//
// Server Window:
//   - Fed from x-rate-limit-remaining and x-rate-limit-reset headers
//   - Answers how long to wait before the quota replenishes
//
// Interface:
//
// Client-side limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait(ctx) error - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 30 requests per minute
//	limiter := ratelimit.NewTokenBucket(30, time.Minute)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    // Wait for rate limit to reset
//	    limiter.Wait(ctx)
//	}
//
//	// Server window fed from response headers
//	window := ratelimit.NewWindow()
//	window.UpdateFromHeaders(resp.Header)
//	if wait := window.WaitDuration(); wait > 0 {
//	    ratelimit.Sleep(ctx, wait)
//	}
package ratelimit
