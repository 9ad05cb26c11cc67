package history

import "time"

// Run is one recorded orchestrator run.
type Run struct {
	ID             int64
	Target         string
	Timestamp      time.Time
	DurationMs     int64
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	TotalErrors    int
	TotalWarnings  int
}
