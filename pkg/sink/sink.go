package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"tweetharvest/pkg/record"
)

// Sink consumes flattened records one at a time.
type Sink interface {
	// Write persists or buffers a single record.
	Write(r record.Record) error
	// Close flushes whatever the sink still holds and releases its
	// resources. Close is called exactly once, after the last Write.
	Close() error
}

// nextAvailablePath returns a timestamp-named output file that does
// not exist yet. When a run produces several files within one second
// the timestamp is bumped until the name is free, so no file ever
// overwrites an earlier one.
func nextAvailablePath(dir string, ts int64, ext string) string {
	for {
		path := filepath.Join(dir, fmt.Sprintf("%d_output%s", ts, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		ts++
	}
}

// ensureDir creates the output directory when it is missing.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
