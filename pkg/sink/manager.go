package sink

import (
	"errors"
	"fmt"

	"tweetharvest/pkg/config"
	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/record"
)

// Manager fans every record out to all configured sinks and owns
// their lifecycle.
type Manager struct {
	sinks   []Sink
	written int
	logger  logger.Logger
}

// NewManager wraps the given sinks. At least one sink is required,
// otherwise every record would be silently dropped.
func NewManager(log logger.Logger, sinks ...Sink) (*Manager, error) {
	if len(sinks) == 0 {
		return nil, fmt.Errorf("at least one sink is required")
	}

	return &Manager{
		sinks:  sinks,
		logger: log,
	}, nil
}

// FromConfig builds the sinks the configuration asks for: a streaming
// CSV sink, a checkpointed snapshot sink, or both.
func FromConfig(cfg *config.Config, log logger.Logger) (*Manager, error) {
	var sinks []Sink

	if cfg.Output.CSV {
		csvSink, err := NewCSV(cfg.Output.Directory, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, csvSink)
	}

	if cfg.Search.Checkpoint > 0 {
		snapshotSink, err := NewSnapshot(cfg.Output.Directory, cfg.Search.Checkpoint, cfg.Output.ExportCSV, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, snapshotSink)
	}

	return NewManager(log, sinks...)
}

// Write pushes the record into every sink. The first sink error
// aborts the write and surfaces to the caller.
func (m *Manager) Write(r record.Record) error {
	for _, s := range m.sinks {
		if err := s.Write(r); err != nil {
			return err
		}
	}

	m.written++
	return nil
}

// Close closes every sink, even when an earlier one fails, and
// returns the combined errors.
func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Written returns how many records passed through the manager.
func (m *Manager) Written() int {
	return m.written
}

// Sinks returns the managed sinks, for result reporting.
func (m *Manager) Sinks() []Sink {
	return m.sinks
}
