package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// LoggerWithCaller adds caller information to the logger
func LoggerWithCaller(skip int) Logger {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return GetLogger()
	}

	// Extract just the filename without the full path
	parts := strings.Split(file, "/")
	filename := parts[len(parts)-1]

	return GetLogger().WithField("caller", fmt.Sprintf("%s:%d", filename, line))
}

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, duration float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration,
	}

	if statusCode >= 200 && statusCode < 300 {
		GetLogger().InfoWithFields("HTTP request completed", fields)
	} else if statusCode >= 400 && statusCode < 500 {
		GetLogger().WarnWithFields("HTTP request client error", fields)
	} else if statusCode >= 500 {
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	}
}

// LogRateLimit logs rate limiting events
func LogRateLimit(endpoint string, retryAfter int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfter,
		"action":      "rate_limited",
	}).Warn("Rate limit reached, backing off")
}

// LogPage logs one fetched search page
func LogPage(log Logger, query string, pageSize int, maxID, lastID int64) {
	log.WithFields(map[string]interface{}{
		"query":     query,
		"page_size": pageSize,
		"max_id":    maxID,
		"last_id":   lastID,
	}).Debug("Search page fetched")
}

// LogHarvestProgress logs collection progress against the lower bound.
// lastSeen carries the creation time of the last collected status and
// may be empty when it could not be parsed.
func LogHarvestProgress(log Logger, query string, collected int, cursor, startID int64, lastSeen string) {
	fields := map[string]interface{}{
		"query":     query,
		"collected": collected,
		"cursor":    cursor,
		"start_id":  startID,
	}
	if lastSeen != "" {
		fields["last_seen"] = lastSeen
	}

	log.WithFields(fields).Info("Harvest progress")
}

// LogSnapshot logs snapshot writes
func LogSnapshot(log Logger, path string, rows int, err error) {
	fields := map[string]interface{}{
		"path": path,
		"rows": rows,
	}

	if err != nil {
		log.WithFields(fields).WithError(err).Error("Snapshot write failed")
		return
	}
	log.InfoWithFields("Snapshot written", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// LogMetrics logs performance metrics
func LogMetrics(operation string, metrics map[string]interface{}) {
	fields := map[string]interface{}{
		"operation": operation,
		"type":      "metrics",
	}

	// Merge metrics into fields
	for k, v := range metrics {
		fields[k] = v
	}

	GetLogger().InfoWithFields("Performance metrics", fields)
}

// MustGetLogger gets the logger or panics if it fails
func MustGetLogger() Logger {
	logger := GetLogger()
	if logger == nil {
		panic("logger not initialized")
	}
	return logger
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
