package scheduler

import (
	"github.com/jpequegn/batchlint/internal/admission"
	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// state is the orchestrator's mutable collection of run records. A
// zero value is not usable; build one with newState.
type state struct {
	pending   []*batch.Batch
	active    map[int64]*WorkerState
	completed map[int64][]protocol.ResultRecord
	failed    []classifier.FailedFile
	stats     []WorkerStat
	samples   map[int64][]memsample.Sample
}

// WorkerStat is the scheduler's per-worker summary record, handed to
// the aggregator at finalization.
type WorkerStat struct {
	WorkerID   int64
	Files      int
	PeakRSS    uint64
	DurationMs int64
}

func newState(initial []*batch.Batch) *state {
	return &state{
		pending:   initial,
		active:    make(map[int64]*WorkerState),
		completed: make(map[int64][]protocol.ResultRecord),
		samples:   make(map[int64][]memsample.Sample),
	}
}

// popPending removes and returns the oldest pending batch (FIFO
// tie-break), or nil if pending is empty.
func (s *state) popPending() *batch.Batch {
	if len(s.pending) == 0 {
		return nil
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b
}

func (s *state) idle() bool {
	return len(s.pending) == 0 && len(s.active) == 0
}

func (s *state) admissionSnapshot(masterRSS uint64) admission.Snapshot {
	snap := admission.Snapshot{
		MasterRSS:   masterRSS,
		ActiveCount: len(s.active),
		ActiveRSS:   make([]admission.WorkerRSS, 0, len(s.active)),
	}
	for _, ws := range s.active {
		snap.ActiveRSS = append(snap.ActiveRSS, admission.WorkerRSS{RSS: ws.LastRSS, HasSample: ws.HasSample})
	}
	return snap
}

func (s *state) requeue(batches []*batch.Batch) {
	s.pending = append(s.pending, batches...)
}

func (s *state) fail(files []classifier.FailedFile) {
	s.failed = append(s.failed, files...)
}
