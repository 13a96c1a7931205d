// Package harvest provides the core functionality for collecting statuses.
//
// The harvest package orchestrates the entire collection process,
// coordinating between the search API client, backward pagination,
// record flattening and the output sinks.
//
// Architecture:
//
// The Harvester struct is the main component that:
//   - Builds the search parameters for a run
//   - Drains the paginator's page sequence down to the lower-bound ID
//   - Flattens every status into a flat record
//   - Fans records out to the configured sinks
//   - Tracks progress and writes the end-of-run manifest
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	cfg.Output.Directory = "harvest_output"
//
//	client := twitter.NewClient(&cfg.Twitter, log)
//	harvester := harvest.New(cfg, client, log)
//
//	summary, err := harvester.Run(ctx, harvest.Request{
//	    Query:   "#flood OR #storm",
//	    Lang:    "en",
//	    StartID: 1132073789481787392,
//	})
//	if err != nil {
//	    log.Fatal(err.Error())
//	}
//	fmt.Printf("collected %d statuses\n", summary.Collected)
//
// Rate Limiting:
//
// The API client absorbs rate limits on its own: it reads the quota
// headers of every response and sleeps through exhausted windows. The
// harvester never sees a rate-limit error unless that behavior is
// disabled in the configuration.
//
// Errors:
//
// Any other failure (network, auth, parsing, a malformed status
// timestamp) ends the run. The sinks are closed first, so everything
// collected up to the failure is flushed to disk, then the error is
// returned to the caller.
package harvest
