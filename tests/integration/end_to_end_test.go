package integration

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"tweetharvest/pkg/harvest"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/manifest"
	"tweetharvest/pkg/record"
	"tweetharvest/pkg/sink"
	"tweetharvest/pkg/twitter"
)

// TestHarvestEndToEnd walks a full harvest against the mock API: three
// pages down to the lower bound, one past-the-bound probe that comes
// back empty, every status flattened into the CSV, snapshots at each
// checkpoint boundary and a manifest describing the run.
func TestHarvestEndToEnd(t *testing.T) {
	h := NewTestHelper(t)

	tweets := GenerateTweets(200, 25)
	server := NewMockSearchServer(tweets, 10)
	defer server.Close()

	cfg := h.CreateTestConfig(server.URL(), 10)
	log := logger.NewTestLogger()
	client := twitter.NewClient(&cfg.Twitter, log)

	harvester := harvest.New(cfg, client, log)
	harvester.SetQuiet(true)

	summary, err := harvester.Run(context.Background(), harvest.Request{
		Query:   "#flood OR #storm",
		Lang:    "en",
		StartID: 150,
	})
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	if summary.Collected != 25 {
		t.Errorf("Expected 25 statuses collected, got %d", summary.Collected)
	}
	if summary.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", summary.Pages)
	}
	if summary.NewestID != 200 {
		t.Errorf("Expected newest ID 200, got %d", summary.NewestID)
	}
	if summary.OldestID != 176 {
		t.Errorf("Expected oldest ID 176, got %d", summary.OldestID)
	}

	// The last page ends on ID 176, still at or above the lower bound,
	// so one more request goes out and comes back empty.
	if server.RequestCount() != 4 {
		t.Errorf("Expected 4 search requests, got %d", server.RequestCount())
	}
	wantMaxIDs := []int64{0, 190, 180, 175}
	gotMaxIDs := server.MaxIDs()
	if len(gotMaxIDs) != len(wantMaxIDs) {
		t.Fatalf("Expected %d search requests, got max_ids %v", len(wantMaxIDs), gotMaxIDs)
	}
	for i, want := range wantMaxIDs {
		if gotMaxIDs[i] != want {
			t.Errorf("Request %d used max_id %d, expected %d", i+1, gotMaxIDs[i], want)
		}
	}

	if len(summary.CSVFiles) != 1 {
		t.Fatalf("Expected 1 CSV file, got %d: %v", len(summary.CSVFiles), summary.CSVFiles)
	}
	rows := h.ReadCSVRows(summary.CSVFiles[0])
	if len(rows) != 26 {
		t.Fatalf("Expected header plus 25 rows in the CSV, got %d rows", len(rows))
	}

	wantHeader := record.Headers()
	for i, name := range wantHeader {
		if rows[0][i] != name {
			t.Errorf("Header column %d is %q, expected %q", i, rows[0][i], name)
		}
	}

	// Column order: date, timestamp, id, text, user_handle, user_id,
	// followers_count, favorite_count, retweet_count, is_retweet,
	// city, country.
	first := rows[1]
	if first[2] != "200" {
		t.Errorf("Expected the newest status first, got ID %s", first[2])
	}
	wantTS := time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC).Unix()
	if first[1] != strconv.FormatInt(wantTS, 10) {
		t.Errorf("Expected timestamp %d for the newest status, got %s", wantTS, first[1])
	}
	if first[9] != "false" {
		t.Errorf("Expected is_retweet false for a plain status, got %s", first[9])
	}
	if first[10] != "Houston" || first[11] != "United States" {
		t.Errorf("Expected place columns Houston/United States, got %s/%s", first[10], first[11])
	}

	repost := rows[2]
	if repost[9] != "true" {
		t.Errorf("Expected is_retweet true for an RT-prefixed status, got %s", repost[9])
	}
	if repost[10] != "" || repost[11] != "" {
		t.Errorf("Expected empty place columns for a status without a place, got %s/%s", repost[10], repost[11])
	}

	multiline := rows[3]
	if strings.ContainsAny(multiline[3], "\n\r") {
		t.Errorf("Expected line breaks collapsed in the text column, got %q", multiline[3])
	}

	if last := rows[25]; last[2] != "176" {
		t.Errorf("Expected the oldest status last, got ID %s", last[2])
	}

	// Snapshots at 10 and 20 collected, plus the final full snapshot.
	if len(summary.SnapshotFiles) != 3 {
		t.Fatalf("Expected 3 snapshot files, got %d: %v", len(summary.SnapshotFiles), summary.SnapshotFiles)
	}
	partial, err := sink.ReadSnapshot(summary.SnapshotFiles[0])
	if err != nil {
		t.Fatalf("Failed to read first snapshot: %v", err)
	}
	if len(partial) != 10 {
		t.Errorf("Expected 10 records in the first snapshot, got %d", len(partial))
	}
	final, err := sink.ReadSnapshot(summary.SnapshotFiles[2])
	if err != nil {
		t.Fatalf("Failed to read final snapshot: %v", err)
	}
	if len(final) != 25 {
		t.Errorf("Expected the final snapshot to hold the whole collection, got %d records", len(final))
	}
	if final[0].ID != 200 || final[24].ID != 176 {
		t.Errorf("Expected the final snapshot ordered 200 down to 176, got %d..%d", final[0].ID, final[24].ID)
	}

	if summary.ManifestPath == "" {
		t.Fatal("Expected a manifest path in the summary")
	}
	man, err := manifest.NewManager(h.OutputDir(), log).Load()
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if man == nil {
		t.Fatal("Expected a manifest on disk")
	}
	if man.Collected != 25 || man.Pages != 3 {
		t.Errorf("Manifest reports %d collected over %d pages, expected 25 over 3", man.Collected, man.Pages)
	}
	if man.OldestID != 176 || man.NewestID != 200 {
		t.Errorf("Manifest ID bounds %d..%d, expected 176..200", man.OldestID, man.NewestID)
	}
	if man.StartID != 150 {
		t.Errorf("Manifest start ID %d, expected 150", man.StartID)
	}
	if man.Query != "#flood OR #storm" {
		t.Errorf("Manifest query %q, expected the search query", man.Query)
	}
	if len(man.SnapshotFiles) != 3 || len(man.CSVFiles) != 1 {
		t.Errorf("Manifest lists %d snapshots and %d CSV files, expected 3 and 1",
			len(man.SnapshotFiles), len(man.CSVFiles))
	}
	if man.Duration == "" {
		t.Error("Expected a duration in the manifest")
	}
}

// TestHarvestRateLimitRecovery hits a 429 mid-run and expects the
// client to wait out the reported window and resume with the same
// cursor, invisible to the harvest loop.
func TestHarvestRateLimitRecovery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate-limit window wait in short mode")
	}

	h := NewTestHelper(t)

	tweets := GenerateTweets(120, 20)
	server := NewMockSearchServer(tweets, 10)
	defer server.Close()
	server.RateLimitRequest(2)

	cfg := h.CreateTestConfig(server.URL(), 0)
	log := logger.NewTestLogger()
	client := twitter.NewClient(&cfg.Twitter, log)

	var hookWaits []time.Duration
	client.SetRateLimitHook(func(wait time.Duration) {
		hookWaits = append(hookWaits, wait)
	})

	harvester := harvest.New(cfg, client, log)
	harvester.SetQuiet(true)

	start := time.Now()
	summary, err := harvester.Run(context.Background(), harvest.Request{
		Query:   "#flood",
		Lang:    "en",
		StartID: 100,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}
	if summary.Collected != 20 {
		t.Errorf("Expected 20 statuses collected, got %d", summary.Collected)
	}
	if summary.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", summary.Pages)
	}
	if server.RateLimitHits() != 1 {
		t.Errorf("Expected 1 rate-limited response, got %d", server.RateLimitHits())
	}
	if server.RequestCount() != 4 {
		t.Errorf("Expected 4 search requests including the retry, got %d", server.RequestCount())
	}
	if len(hookWaits) == 0 {
		t.Error("Expected the rate-limit hook to fire")
	}
	if elapsed < time.Second {
		t.Errorf("Expected the run to wait out the reported window, finished in %s", elapsed)
	}

	// The retry repeats the cursor of the rate-limited request.
	wantMaxIDs := []int64{0, 110, 110, 100}
	gotMaxIDs := server.MaxIDs()
	if len(gotMaxIDs) != len(wantMaxIDs) {
		t.Fatalf("Expected max_ids %v, got %v", wantMaxIDs, gotMaxIDs)
	}
	for i, want := range wantMaxIDs {
		if gotMaxIDs[i] != want {
			t.Errorf("Request %d used max_id %d, expected %d", i+1, gotMaxIDs[i], want)
		}
	}
}

// TestHarvestServerErrorPropagates verifies that anything other than a
// rate limit ends the run: the error surfaces to the caller and the
// pages collected before it remain on disk.
func TestHarvestServerErrorPropagates(t *testing.T) {
	h := NewTestHelper(t)

	tweets := GenerateTweets(90, 15)
	server := NewMockSearchServer(tweets, 10)
	defer server.Close()
	server.FailRequest(2, 500)

	cfg := h.CreateTestConfig(server.URL(), 10)
	log := logger.NewTestLogger()
	client := twitter.NewClient(&cfg.Twitter, log)

	harvester := harvest.New(cfg, client, log)
	harvester.SetQuiet(true)

	summary, err := harvester.Run(context.Background(), harvest.Request{
		Query:   "#flood",
		Lang:    "en",
		StartID: 50,
	})
	if err == nil {
		t.Fatal("Expected the harvest to fail on a server error")
	}
	if summary != nil {
		t.Errorf("Expected no summary after a failed run, got %+v", summary)
	}
	if !strings.Contains(err.Error(), "search failed") {
		t.Errorf("Expected a search failure, got: %v", err)
	}
	if server.RequestCount() != 2 {
		t.Errorf("Expected the run to stop at the failing request, got %d requests", server.RequestCount())
	}

	// The first page was already flushed when the error hit.
	csvFiles := h.FindFiles("*_output.csv")
	if len(csvFiles) != 1 {
		t.Fatalf("Expected 1 CSV file, got %v", csvFiles)
	}
	rows := h.ReadCSVRows(csvFiles[0])
	if len(rows) != 11 {
		t.Errorf("Expected header plus 10 rows in the CSV, got %d rows", len(rows))
	}

	snapshots := h.FindFiles("*_output.parquet")
	if len(snapshots) != 2 {
		t.Fatalf("Expected the checkpoint snapshot and the close-time snapshot, got %v", snapshots)
	}
	records, err := sink.ReadSnapshot(snapshots[len(snapshots)-1])
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if len(records) != 10 {
		t.Errorf("Expected 10 records in the snapshot, got %d", len(records))
	}

	if manifest.NewManager(h.OutputDir(), log).Exists() {
		t.Error("Expected no manifest after a failed run")
	}
}

// TestHarvestNoResults checks the degenerate run: the very first page
// is empty, so the harvest ends with a header-only CSV and no
// snapshots.
func TestHarvestNoResults(t *testing.T) {
	h := NewTestHelper(t)

	server := NewMockSearchServer(nil, 10)
	defer server.Close()

	cfg := h.CreateTestConfig(server.URL(), 10)
	log := logger.NewTestLogger()
	client := twitter.NewClient(&cfg.Twitter, log)

	harvester := harvest.New(cfg, client, log)
	harvester.SetQuiet(true)

	summary, err := harvester.Run(context.Background(), harvest.Request{
		Query:   "#flood",
		Lang:    "en",
		StartID: 1,
	})
	if err != nil {
		t.Fatalf("Harvest failed: %v", err)
	}

	if summary.Collected != 0 || summary.Pages != 0 {
		t.Errorf("Expected an empty run, got %d statuses over %d pages", summary.Collected, summary.Pages)
	}
	if server.RequestCount() != 1 {
		t.Errorf("Expected a single request, got %d", server.RequestCount())
	}

	if len(summary.CSVFiles) != 1 {
		t.Fatalf("Expected 1 CSV file, got %v", summary.CSVFiles)
	}
	rows := h.ReadCSVRows(summary.CSVFiles[0])
	if len(rows) != 1 {
		t.Errorf("Expected a header-only CSV, got %d rows", len(rows))
	}

	// The close-time snapshot is written even for an empty collection.
	if len(summary.SnapshotFiles) != 1 {
		t.Fatalf("Expected the close-time snapshot, got %v", summary.SnapshotFiles)
	}
	records, err := sink.ReadSnapshot(summary.SnapshotFiles[0])
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected an empty snapshot, got %d records", len(records))
	}
}

// TestVerifyCredentialsEndToEnd checks the account verification call
// against the mock API.
func TestVerifyCredentialsEndToEnd(t *testing.T) {
	h := NewTestHelper(t)

	server := NewMockSearchServer(nil, 10)
	defer server.Close()

	cfg := h.CreateTestConfig(server.URL(), 0)
	client := twitter.NewClient(&cfg.Twitter, logger.NewTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := client.VerifyCredentials(ctx)
	if err != nil {
		t.Fatalf("Credential verification failed: %v", err)
	}
	if user.ScreenName != "harvest_bot" {
		t.Errorf("Expected screen name harvest_bot, got %q", user.ScreenName)
	}
}
