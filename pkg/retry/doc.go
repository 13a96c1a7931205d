// Package retry provides backoff and retry logic for handling transient
// failures in network operations, particularly for Twitter API calls.
//
// Features:
//   - Multiple backoff strategies (exponential, linear, constant)
//   - Jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Error-type specific backoff strategies
//   - Configurable retry predicates
//   - Unlimited attempts (MaxAttempts = 0) for absorbing rate limits
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return client.VerifyCredentials(ctx)
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			BaseDelay:    2 * time.Second,
//			MaxDelay:     30 * time.Second,
//			Multiplier:   2.0,
//			JitterFactor: 0.1,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	err := retry.Do(operation, cfg)
//
//	// Sleep through rate-limit windows, surface everything else
//	cfg := &retry.Config{
//		MaxAttempts: 0,
//		Backoff:     windowBackoff,
//		RetryIf:     retry.RateLimitOnly,
//	}
//	tweets, err := retry.DoWithResult(fetchPage, cfg)
//
// Error Type Handling:
//
// The package provides different backoff strategies for different error types:
//   - Network errors: Quick retries with exponential backoff
//   - Rate limit errors: Delays sized to the 15-minute search window
//   - Server errors: Moderate delays with exponential backoff
//   - Auth/NotFound errors: No retry (non-retryable)
package retry
