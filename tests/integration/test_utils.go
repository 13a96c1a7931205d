package integration

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/twitter"
)

// TestHelper provides common fixtures and assertions for the
// end-to-end harvest tests.
type TestHelper struct {
	t       *testing.T
	tempDir string
}

// NewTestHelper creates a helper with a temporary output directory
// that is cleaned up when the test finishes.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	return &TestHelper{
		t:       t,
		tempDir: t.TempDir(),
	}
}

// OutputDir returns the temporary output directory of this test.
func (h *TestHelper) OutputDir() string {
	return h.tempDir
}

// CreateTestConfig returns a configuration pointed at the mock API
// with notifications and pacing off so a test run touches nothing
// outside its temp directory.
func (h *TestHelper) CreateTestConfig(serverURL string, checkpoint int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Twitter.ConsumerKey = "test-consumer-key"
	cfg.Twitter.ConsumerSecret = "test-consumer-secret"
	cfg.Twitter.AccessToken = "test-access-token"
	cfg.Twitter.AccessSecret = "test-access-secret"
	cfg.Twitter.BaseURL = serverURL
	cfg.Twitter.RequestTimeout = 10 * time.Second
	cfg.Search.Checkpoint = checkpoint
	cfg.Output.Directory = h.tempDir
	cfg.Output.CSV = true
	cfg.Notifications = config.NotificationConfig{}
	cfg.Logging.Level = "error"
	return cfg
}

// GenerateTweets builds count statuses with consecutive descending IDs
// starting at newestID, newest first, the order the API serves them.
// The texts cycle through the shapes the flattener has to handle:
// plain, repost-marked and multi-line, and every sixth status carries
// a place.
func GenerateTweets(newestID int64, count int) []twitter.Tweet {
	base := time.Date(2019, time.May, 28, 9, 21, 14, 0, time.UTC)

	tweets := make([]twitter.Tweet, 0, count)
	for i := 0; i < count; i++ {
		id := newestID - int64(i)

		var text string
		switch i % 4 {
		case 1:
			text = fmt.Sprintf("RT @reporter: flood warning issued near station %d", id)
		case 2:
			text = fmt.Sprintf("water levels rising\nstay away from the river bank %d", id)
		default:
			text = fmt.Sprintf("heavy rain reported in sector %d #flood", id)
		}

		tweet := twitter.Tweet{
			CreatedAt:     base.Add(-time.Duration(i) * time.Minute).Format(time.RubyDate),
			ID:            id,
			IDStr:         fmt.Sprintf("%d", id),
			FullText:      text,
			User:          testUser(id),
			RetweetCount:  int(id % 7),
			FavoriteCount: int(id % 11),
			Lang:          "en",
		}
		if i%6 == 0 {
			tweet.Place = &twitter.Place{
				Name:    "Houston",
				Country: "United States",
			}
		}
		tweets = append(tweets, tweet)
	}
	return tweets
}

func testUser(id int64) twitter.User {
	handles := []string{"storm_watch", "river_gauge", "city_alerts"}
	return twitter.User{
		ID:             10000 + id%3,
		ScreenName:     handles[id%3],
		FollowersCount: int(100 + id%50),
	}
}

// ReadCSVRows parses a harvested CSV file, header row included,
// stripping the byte order mark the writer prepends.
func (h *TestHelper) ReadCSVRows(path string) [][]string {
	h.t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		h.t.Fatalf("Failed to read CSV file %s: %v", path, err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		h.t.Fatalf("Failed to parse CSV file %s: %v", path, err)
	}
	return rows
}

// FindFiles returns the files in the output directory matching the
// glob pattern, sorted by name.
func (h *TestHelper) FindFiles(pattern string) []string {
	h.t.Helper()

	matches, err := filepath.Glob(filepath.Join(h.tempDir, pattern))
	if err != nil {
		h.t.Fatalf("Bad glob pattern %s: %v", pattern, err)
	}
	return matches
}
