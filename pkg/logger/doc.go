// Package logger provides a structured logging interface for the tweet harvester.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - File output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "tweetharvest/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File: "/var/log/tweetharvest.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Application started")
//	logger.WithField("query", "foo OR bar").Info("Harvest started")
//	logger.WithError(err).Error("Failed to write snapshot")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "harvester").
//	    WithField("start_id", int64(1132073789481787392))
//
//	// Use structured logging
//	log.InfoWithFields("Snapshot written", map[string]interface{}{
//	    "path": "1565482120_output.parquet",
//	    "rows": 50000,
//	    "duration": time.Second * 5,
//	})
//
// The logger supports the following configuration options:
// - Level: Log level (debug, info, warn, error, fatal)
// - File: Path to log file (empty for console only)
package logger
