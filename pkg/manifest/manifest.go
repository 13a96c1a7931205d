// Package manifest records what a harvest run produced: the query,
// the collected count, the ID bounds reached and the files written.
// One manifest.json per output directory describes the most recent
// run into it.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/record"
)

// Manifest summarizes one harvest run.
type Manifest struct {
	Query      string `json:"query"`
	Lang       string `json:"lang"`
	StartID    int64  `json:"start_id"`
	Checkpoint int    `json:"checkpoint"`

	Collected       int    `json:"collected"`
	Pages           int    `json:"pages"`
	OldestID        int64  `json:"oldest_id"`
	NewestID        int64  `json:"newest_id"`
	OldestCreatedAt string `json:"oldest_created_at,omitempty"`
	NewestCreatedAt string `json:"newest_created_at,omitempty"`

	CSVFiles      []string `json:"csv_files,omitempty"`
	SnapshotFiles []string `json:"snapshot_files,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Duration   string    `json:"duration"`
	Version    int       `json:"version"`
}

// New opens a manifest for a run starting now.
func New(query, lang string, startID int64, checkpoint int) *Manifest {
	return &Manifest{
		Query:      query,
		Lang:       lang,
		StartID:    startID,
		Checkpoint: checkpoint,
		StartedAt:  time.Now(),
		Version:    1,
	}
}

// Observe folds one more record into the counters and ID bounds.
func (m *Manifest) Observe(r record.Record) {
	m.Collected++

	if m.OldestID == 0 || r.ID < m.OldestID {
		m.OldestID = r.ID
		m.OldestCreatedAt = r.Date
	}
	if r.ID > m.NewestID {
		m.NewestID = r.ID
		m.NewestCreatedAt = r.Date
	}
}

// Finish stamps the end of the run.
func (m *Manifest) Finish() {
	m.FinishedAt = time.Now()
	m.Duration = m.FinishedAt.Sub(m.StartedAt).Round(time.Millisecond).String()
}

// Manager owns the manifest file of an output directory.
type Manager struct {
	path   string
	logger logger.Logger
}

// NewManager creates a manager for the manifest of outputDir.
func NewManager(outputDir string, log logger.Logger) *Manager {
	return &Manager{
		path:   filepath.Join(outputDir, "manifest.json"),
		logger: log,
	}
}

// Save writes the manifest to disk atomically.
func (m *Manager) Save(manifest *Manifest) error {
	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(manifest); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync manifest file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close manifest file: %w", err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace manifest file: %w", err)
	}

	m.logger.DebugWithFields("Manifest saved", map[string]interface{}{
		"path":      m.path,
		"collected": manifest.Collected,
	})
	return nil
}

// Load reads the manifest of a previous run. A missing file returns
// nil without an error.
func (m *Manager) Load() (*Manifest, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var manifest Manifest
	if err := json.NewDecoder(file).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	return &manifest, nil
}

// Exists reports whether a manifest has been written.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Path returns the manifest file location.
func (m *Manager) Path() string {
	return m.path
}
