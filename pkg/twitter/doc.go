// Package twitter provides a client for the Twitter v1.1 search API.
//
// This package includes:
//   - An OAuth1-signed HTTP client with typed error handling
//   - Models for statuses, users, places and the search envelope
//   - Helper functions for constructing search requests
//   - Rate-limit window tracking fed from response headers
//
// Example usage:
//
//	client := twitter.NewClient(&cfg.Twitter, log)
//
//	params := twitter.SearchParams{
//	    Query: twitter.BuildSearchTerm("coffee,espresso"),
//	    Lang:  "en",
//	}
//	tweets, err := client.Search(ctx, params)
//	if err != nil {
//	    var apiErr *errors.Error
//	    if stderrors.As(err, &apiErr) && apiErr.Type == errors.ErrorTypeAuth {
//	        // Credentials rejected, no point retrying
//	    }
//	}
//
// With AutoWaitRateLimit enabled in the configuration the client
// absorbs rate limiting entirely: it sleeps until the reported window
// resets and retries, so Search only ever returns a served page or a
// non-recoverable error.
package twitter
