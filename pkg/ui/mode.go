package ui

// Output modes. Quiet silences everything except errors; progress-only
// keeps the progress line and final summary but drops informational
// chatter. The CLI sets these once at startup before any output.
var (
	quietMode        bool
	progressOnlyMode bool
)

// SetQuietMode suppresses all terminal output except errors.
func SetQuietMode(enabled bool) {
	quietMode = enabled
}

// SetProgressOnlyMode limits output to the progress line, warnings and
// the final summary.
func SetProgressOnlyMode(enabled bool) {
	progressOnlyMode = enabled
}

// IsQuietMode reports whether quiet mode is active.
func IsQuietMode() bool {
	return quietMode
}

// IsProgressOnlyMode reports whether progress-only mode is active.
func IsProgressOnlyMode() bool {
	return progressOnlyMode
}
