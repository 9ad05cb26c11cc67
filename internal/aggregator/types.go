package aggregator

import (
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// WorkerStat is the per-worker summary record in a run's Summary.
type WorkerStat struct {
	WorkerID   int64  `json:"worker_id"`
	Files      int    `json:"files"`
	PeakRSS    uint64 `json:"peak_rss"`
	DurationMs int64  `json:"duration_ms"`
}

// FinalState is the scheduler's terminal state, handed to Finalize
// once pending and active are both empty. It is a plain value so the
// scheduler remains the sole owner of the mutable collections it was
// built from.
type FinalState struct {
	TotalFiles    int
	Completed     map[int64][]protocol.ResultRecord
	Failed        []classifier.FailedFile
	WorkerStats   []WorkerStat
	MasterSamples []memsample.Sample
	WorkerSamples map[int64][]memsample.Sample
}

// Summary is the persisted, human- and machine-readable outcome of a
// run.
type Summary struct {
	TotalFiles     int                     `json:"total_files"`
	ProcessedFiles int                     `json:"processed_files"`
	FailedFiles    int                     `json:"failed_files"`
	TotalErrors    int                     `json:"total_errors"`
	TotalWarnings  int                     `json:"total_warnings"`
	Workers        []WorkerStat            `json:"workers"`
	Failures       []classifier.FailedFile `json:"failures"`
}

// Success reports whether the run should exit 0.
func (s Summary) Success() bool { return s.FailedFiles == 0 }
