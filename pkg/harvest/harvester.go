package harvest

import (
	"context"
	"fmt"
	"time"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/manifest"
	"tweetharvest/pkg/paginate"
	"tweetharvest/pkg/record"
	"tweetharvest/pkg/sink"
	"tweetharvest/pkg/twitter"
	"tweetharvest/pkg/ui"
)

// Request describes one harvest run. Exactly one of Query, RawQuery
// or Geocode must be set.
type Request struct {
	Query    string
	RawQuery string
	Geocode  string
	Lang     string
	StartID  int64
	Until    string
}

// Summary reports what a finished run produced
type Summary struct {
	Query         string
	Collected     int
	Pages         int
	OldestID      int64
	NewestID      int64
	CSVFiles      []string
	SnapshotFiles []string
	ManifestPath  string
	Duration      time.Duration
}

// Harvester orchestrates the status collection process
type Harvester struct {
	client   SearchClient
	config   *config.Config
	mapper   record.Mapper
	logger   logger.Logger
	notifier *ui.Notifier
	quiet    bool
}

// New creates a new Harvester around an API client
func New(cfg *config.Config, client SearchClient, log logger.Logger) *Harvester {
	return &Harvester{
		client:   client,
		config:   cfg,
		mapper:   record.Mapper{LooseTimestamps: cfg.Output.LooseTimestamps},
		logger:   log,
		notifier: ui.NewNotifier(),
	}
}

// SetQuiet suppresses the interactive progress output
func (h *Harvester) SetQuiet(quiet bool) {
	h.quiet = quiet
}

// Run walks the search results backward from the newest status down to
// the lower-bound ID and writes every status to the configured sinks.
// Rate limits are absorbed inside the client; every other error ends
// the run and is returned.
func (h *Harvester) Run(ctx context.Context, req Request) (*Summary, error) {
	params := twitter.SearchParams{
		Query:     req.Query,
		RawQuery:  req.RawQuery,
		Geocode:   req.Geocode,
		Lang:      req.Lang,
		Count:     twitter.DefaultCount,
		Until:     req.Until,
		TweetMode: twitter.TweetModeExtended,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	startID := req.StartID
	if startID <= 0 {
		startID = h.config.Search.StartID
	}

	sinks, err := sink.FromConfig(h.config, h.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up sinks: %w", err)
	}

	queryText := queryLabel(req)
	man := manifest.New(queryText, req.Lang, startID, h.config.Search.Checkpoint)
	tracker := ui.NewStatusTracker(h.config.Search.Checkpoint)
	pager := paginate.New(h.client, h.logger)

	h.logger.InfoWithFields("Starting harvest", map[string]interface{}{
		"query":      queryText,
		"start_id":   startID,
		"lang":       req.Lang,
		"checkpoint": h.config.Search.Checkpoint,
		"action":     "harvest_start",
	})

	var runErr error

harvest:
	for page, err := range pager.Pages(ctx, startID, params) {
		if err != nil {
			runErr = fmt.Errorf("search failed: %w", err)
			break
		}
		tracker.PageFetched()

		for _, tweet := range page {
			rec, err := h.mapper.Flatten(tweet)
			if err != nil {
				runErr = fmt.Errorf("failed to flatten status %d: %w", tweet.ID, err)
				break harvest
			}

			if err := sinks.Write(rec); err != nil {
				runErr = fmt.Errorf("failed to write status %d: %w", rec.ID, err)
				break harvest
			}

			tracker.RecordCollected(rec.ID)
			man.Observe(rec)
		}

		last := page[len(page)-1]
		lastSeen := ""
		if created, err := record.ParseCreatedAt(last.CreatedAt); err == nil {
			lastSeen = created.Format(time.RFC3339)
		}
		logger.LogHarvestProgress(h.logger, queryText, tracker.TotalCollected, last.ID, startID, lastSeen)

		if !h.quiet {
			tracker.PrintProgress()
		}
	}

	if runErr != nil {
		// Flush what was collected so far before surfacing the error
		if cerr := sinks.Close(); cerr != nil {
			h.logger.WithError(cerr).Error("Failed to close sinks after harvest error")
		}

		h.logger.WithError(runErr).WithFields(map[string]interface{}{
			"query":     queryText,
			"collected": tracker.TotalCollected,
		}).Error("Harvest failed")

		if h.config.Notifications.Enabled && h.config.Notifications.OnError {
			h.notifier.SendError("Harvest failed", runErr.Error())
		}
		return nil, runErr
	}

	if err := sinks.Close(); err != nil {
		return nil, fmt.Errorf("failed to close sinks: %w", err)
	}

	man.Pages = tracker.Pages
	man.Finish()

	summary := &Summary{
		Query:     queryText,
		Collected: tracker.TotalCollected,
		Pages:     tracker.Pages,
		OldestID:  man.OldestID,
		NewestID:  man.NewestID,
		Duration:  man.FinishedAt.Sub(man.StartedAt),
	}

	for _, s := range sinks.Sinks() {
		switch s := s.(type) {
		case *sink.CSV:
			summary.CSVFiles = append(summary.CSVFiles, s.Path())
		case *sink.Snapshot:
			summary.SnapshotFiles = append(summary.SnapshotFiles, s.Snapshots()...)
			if p := s.CSVPath(); p != "" {
				summary.CSVFiles = append(summary.CSVFiles, p)
			}
		}
	}
	man.CSVFiles = summary.CSVFiles
	man.SnapshotFiles = summary.SnapshotFiles

	if h.config.Output.Manifest {
		mgr := manifest.NewManager(h.config.Output.Directory, h.logger)
		if err := mgr.Save(man); err != nil {
			// The harvest itself succeeded, so a manifest failure only logs
			h.logger.WithError(err).Error("Failed to save manifest")
		} else {
			summary.ManifestPath = mgr.Path()
		}
	}

	if !h.quiet {
		tracker.PrintSummary()
	}

	h.logger.InfoWithFields("Harvest completed", map[string]interface{}{
		"query":     queryText,
		"collected": summary.Collected,
		"pages":     summary.Pages,
		"duration":  man.Duration,
		"action":    "harvest_complete",
	})

	if h.config.Notifications.Enabled && h.config.Notifications.OnComplete {
		h.notifier.SendSuccess("Harvest Complete",
			fmt.Sprintf("%d statuses collected for %s", summary.Collected, queryText))
	}

	return summary, nil
}

// queryLabel picks the most descriptive query field for logs and the manifest
func queryLabel(req Request) string {
	switch {
	case req.Query != "":
		return req.Query
	case req.RawQuery != "":
		return req.RawQuery
	default:
		return req.Geocode
	}
}
