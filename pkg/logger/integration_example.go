package logger

// This file shows how to integrate the logger into the main application

/*
Example integration in main.go:

package main

import (
	"os"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/harvest"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/ui"
)

func main() {
	// Show ASCII logo
	ui.PrintLogo()

	// ... get search terms and flags ...

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize the logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	// Now you can use the logger throughout the application
	logger.Info("Tweet harvester starting")
	logger.WithField("query", query).Info("Searching")

	// Log configuration (be careful not to log credentials)
	logger.WithFields(map[string]interface{}{
		"output_dir": cfg.Output.Directory,
		"start_id":   cfg.Search.StartID,
		"checkpoint": cfg.Search.Checkpoint,
		"log_level":  cfg.Logging.Level,
	}).Debug("Configuration loaded")

	// Create and run harvester with logging
	logger.Info("Initializing harvester")

	h := harvest.New(cfg, client, logger.GetLogger())

	// Log component start
	logger.LogComponentStart("harvester", map[string]interface{}{
		"query":    query,
		"start_id": cfg.Search.StartID,
	})

	result, err := h.Run(ctx, harvest.Request{Query: query, StartID: cfg.Search.StartID})
	if err != nil {
		logger.WithError(err).WithField("query", query).Error("Harvest failed")
		logger.LogComponentStop("harvester", "error")
		os.Exit(1)
	}

	logger.LogComponentStop("harvester", "completed")
	logger.WithField("collected", result.Collected).Info("Harvest completed successfully")
}
*/

// Example integration in the pagination layer:
/*
func (p *Paginator) fetchPage(ctx context.Context, maxID int64) ([]twitter.Tweet, error) {
	log := logger.GetLogger().
		WithField("component", "paginate").
		WithField("query", params.Query)

	log.Debug("Fetching search page")

	tweets, err := p.client.Search(ctx, params)
	if err != nil {
		log.WithError(err).Error("Search request failed")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"page_size": len(tweets),
		"max_id":    maxID,
	}).Debug("Search page fetched")

	// ... rest of the implementation ...
}
*/

// Example integration in the snapshot sink:
/*
func (s *Snapshot) flush() error {
	start := time.Now()
	log := logger.GetLogger().
		WithField("component", "sink").
		WithField("path", s.nextPath())

	log.Debug("Writing snapshot")

	// ... serialization logic ...

	duration := time.Since(start)
	log.WithField("duration", duration).Info("Snapshot written")

	// Use helper function for standardized logging
	logger.LogSnapshot(log, path, rows, nil)

	return nil
}
*/

// Example integration with the rate-limit window:
/*
func (c *Client) waitForWindow(ctx context.Context) error {
	if wait := c.window.WaitDuration(); wait > 0 {
		logger.LogRateLimit("/search/tweets.json", int(wait.Seconds()))
		return ratelimit.Sleep(ctx, wait)
	}
	return nil
}
*/
