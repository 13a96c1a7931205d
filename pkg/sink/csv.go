package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"tweetharvest/pkg/logger"
	"tweetharvest/pkg/record"
)

// utf8BOM marks the file as UTF-8 for spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV streams records into a single delimited file: header row once,
// then one row per record, flushed as it arrives. Memory use stays
// constant no matter how many records pass through.
type CSV struct {
	file   *os.File
	writer *csv.Writer
	path   string
	rows   int
	logger logger.Logger
}

// NewCSV creates a timestamp-named CSV file in dir and returns the
// sink writing to it.
func NewCSV(dir string, log logger.Logger) (*CSV, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return NewCSVFile(nextAvailablePath(dir, time.Now().Unix(), ".csv"), log)
}

// NewCSVFile opens path for writing, emits the byte-order mark and
// the header row, and returns the sink.
func NewCSVFile(path string, log logger.Logger) (*CSV, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create csv file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write byte-order mark: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(record.Headers()); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	log.InfoWithFields("CSV sink opened", map[string]interface{}{
		"path": path,
	})

	return &CSV{
		file:   file,
		writer: writer,
		path:   path,
		logger: log,
	}, nil
}

// Write appends one row and flushes it through to the file, so a
// terminated process loses at most the row being written.
func (c *CSV) Write(r record.Record) error {
	if err := c.writer.Write(r.Row()); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}

	c.rows++
	return nil
}

// Close flushes pending rows and closes the file.
func (c *CSV) Close() error {
	c.writer.Flush()
	flushErr := c.writer.Error()
	closeErr := c.file.Close()

	if flushErr != nil {
		return fmt.Errorf("failed to flush csv rows: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close csv file: %w", closeErr)
	}

	c.logger.InfoWithFields("CSV sink closed", map[string]interface{}{
		"path": c.path,
		"rows": c.rows,
	})
	return nil
}

// Path returns the destination file.
func (c *CSV) Path() string {
	return c.path
}

// Rows returns how many records have been written so far.
func (c *CSV) Rows() int {
	return c.rows
}
