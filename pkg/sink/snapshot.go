package sink

import (
	"fmt"
	"time"

	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/record"

	"github.com/parquet-go/parquet-go"
)

// Snapshot accumulates every record for the life of the run. Each
// time the count reaches an exact multiple of the checkpoint size it
// serializes the entire accumulated collection to a new
// timestamp-named Parquet file, leaving earlier snapshots on disk. A
// snapshot file is complete or absent, never partial beyond what a
// killed process leaves behind.
type Snapshot struct {
	dir        string
	checkpoint int
	exportCSV  bool
	records    []record.Record
	snapshots  []string
	csvPath    string
	logger     logger.Logger
	closed     bool

	// now is replaceable for tests
	now func() time.Time
}

// NewSnapshot creates a snapshot sink writing into dir. Every
// checkpointSize records the whole collection is re-serialized. With
// exportCSV set, Close also writes the full collection as CSV.
func NewSnapshot(dir string, checkpointSize int, exportCSV bool, log logger.Logger) (*Snapshot, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	return &Snapshot{
		dir:        dir,
		checkpoint: checkpointSize,
		exportCSV:  exportCSV,
		logger:     log,
		now:        time.Now,
	}, nil
}

// Write buffers the record and flushes a full snapshot when the
// accumulated count lands on a checkpoint boundary.
func (s *Snapshot) Write(r record.Record) error {
	s.records = append(s.records, r)

	if s.checkpoint > 0 && len(s.records)%s.checkpoint == 0 {
		return s.flush()
	}
	return nil
}

// Close writes the final full snapshot regardless of checkpoint
// alignment, and the CSV export when configured.
func (s *Snapshot) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.flush(); err != nil {
		return err
	}

	if s.exportCSV {
		return s.exportAll()
	}
	return nil
}

// Count returns how many records the sink has accumulated.
func (s *Snapshot) Count() int {
	return len(s.records)
}

// Snapshots returns the paths written so far, oldest first.
func (s *Snapshot) Snapshots() []string {
	return append([]string(nil), s.snapshots...)
}

// CSVPath returns the path of the final CSV export, empty until Close
// has run with the export enabled.
func (s *Snapshot) CSVPath() string {
	return s.csvPath
}

// flush serializes the whole accumulated collection to a fresh file.
func (s *Snapshot) flush() error {
	path := nextAvailablePath(s.dir, s.now().Unix(), ".parquet")

	start := time.Now()
	if err := parquet.WriteFile(path, s.records); err != nil {
		logger.LogSnapshot(s.logger, path, len(s.records), err)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.snapshots = append(s.snapshots, path)
	logger.LogSnapshot(s.logger, path, len(s.records), nil)
	s.logger.DebugWithFields("Snapshot serialized", map[string]interface{}{
		"path":     path,
		"duration": time.Since(start).String(),
	})
	return nil
}

// exportAll writes the full collection through a CSV sink.
func (s *Snapshot) exportAll() error {
	path := nextAvailablePath(s.dir, s.now().Unix(), ".csv")

	csvSink, err := NewCSVFile(path, s.logger)
	if err != nil {
		return err
	}

	for _, r := range s.records {
		if err := csvSink.Write(r); err != nil {
			csvSink.Close()
			return err
		}
	}

	if err := csvSink.Close(); err != nil {
		return err
	}

	s.csvPath = path
	return nil
}

// ReadSnapshot loads a snapshot file back into records, in the order
// they were written.
func ReadSnapshot(path string) ([]record.Record, error) {
	records, err := parquet.ReadFile[record.Record](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return records, nil
}
