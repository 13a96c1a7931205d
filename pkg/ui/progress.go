package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps track of harvest progress
type StatusTracker struct {
	TotalCollected int
	Pages          int
	LastID         int64
	Checkpoint     int // snapshot cadence, 0 when disabled
	StartTime      time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker(checkpoint int) *StatusTracker {
	return &StatusTracker{
		Checkpoint: checkpoint,
		StartTime:  time.Now(),
	}
}

// RecordCollected counts one more collected status
func (st *StatusTracker) RecordCollected(id int64) {
	st.TotalCollected++
	st.LastID = id
}

// PageFetched counts one more fetched page
func (st *StatusTracker) PageFetched() {
	st.Pages++
}

// GetCheckpointProgress returns a formatted progress bar toward the next snapshot
func (st *StatusTracker) GetCheckpointProgress() string {
	const width = 20
	if st.Checkpoint <= 0 {
		return ""
	}

	sinceSnapshot := st.TotalCollected % st.Checkpoint
	progress := float64(sinceSnapshot) / float64(st.Checkpoint)
	filled := int(progress * float64(width))

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, sinceSnapshot, st.Checkpoint)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetCollectionRate returns the average collection rate (statuses per minute)
func (st *StatusTracker) GetCollectionRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.TotalCollected) / elapsed
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	if quietMode {
		return
	}
	line := fmt.Sprintf("\r%s Total: %d | Pages: %d | %.1f/min",
		Green("[COLLECTED]"),
		st.TotalCollected,
		st.Pages,
		st.GetCollectionRate())

	if bar := st.GetCheckpointProgress(); bar != "" {
		line += " | Snapshot: " + bar
	}
	if st.LastID > 0 {
		line += fmt.Sprintf(" | Last: %d", st.LastID)
	}

	// Clear line and print
	fmt.Printf("\r%s%s", strings.Repeat(" ", 120)+"\r", line)
}

// PrintSummary prints the end-of-run summary
func (st *StatusTracker) PrintSummary() {
	if quietMode {
		return
	}
	elapsed := st.GetElapsedTime()

	fmt.Printf("\n\n%s Collected %d statuses across %d pages\n",
		Green("✓"),
		st.TotalCollected,
		st.Pages)

	fmt.Printf("  %s %s elapsed (%.1f statuses/min)\n",
		Dim("•"),
		formatDuration(elapsed),
		st.GetCollectionRate())
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// GetCollectedCount returns the total number of collected statuses
func (st *StatusTracker) GetCollectedCount() int {
	return st.TotalCollected
}
