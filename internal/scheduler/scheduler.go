package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/jpequegn/batchlint/internal/admission"
	"github.com/jpequegn/batchlint/internal/aggregator"
	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// Scheduler is the orchestrator: it owns every mutable piece of run
// state and drives it from a single goroutine's event loop.
type Scheduler struct {
	cfg     Config
	ctrl    *admission.Controller
	spawn   SpawnFunc
	batchID batch.IDGenerator
}

// New returns a Scheduler configured per cfg, spawning workers with
// Spawn. Tests replace Spawn with a fake SpawnFunc via WithSpawnFunc.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		ctrl:  admission.New(admission.Config{MaxWorkers: cfg.MaxWorkers, ContainerLimitMB: cfg.ContainerLimitMB, MemThresholdPercent: cfg.MemThresholdPercent}),
		spawn: Spawn,
	}
}

// WithSpawnFunc overrides the spawn implementation, for tests.
func (s *Scheduler) WithSpawnFunc(fn SpawnFunc) *Scheduler {
	s.spawn = fn
	return s
}

// Run partitions files into initial batches, drives the admission
// gated spawn loop and reactor event handling to completion, and
// returns the finalized summary.
func (s *Scheduler) Run(ctx context.Context, files []string, targetPath string) (aggregator.Summary, error) {
	initial, err := batch.InitialPartition(files, s.cfg.InitialBatchDivisor, &s.batchID)
	if err != nil {
		return aggregator.Summary{}, err
	}

	st := newState(initial)
	events := make(chan Event, 64)
	wg := conc.NewWaitGroup()

	masterSampler := memsample.New(0, masterPID())
	masterInterval := s.cfg.MasterSampleInterval
	if masterInterval <= 0 {
		masterInterval = memsample.DefaultMasterInterval
	}
	stopMasterPump := pumpMasterTicks(masterSampler, masterInterval, events)

	loopErr := s.loop(ctx, st, events, wg, masterSampler, targetPath)

	stopMasterPump()

	// If loop returned early (ctx cancellation) while workers are still
	// active, their pumpIPC/watchExit goroutines keep sending to events
	// until they notice the cancellation. Nothing else is reading it at
	// that point, so drain it here to avoid wg.Wait blocking on a full
	// buffered channel.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range events {
		}
	}()
	wg.Wait()
	close(events)
	<-drained

	if loopErr != nil {
		return aggregator.Summary{}, loopErr
	}

	return aggregator.Finalize(s.cfg.OutputDir, aggregator.FinalState{
		TotalFiles:    len(files),
		Completed:     st.completed,
		Failed:        st.failed,
		WorkerStats:   toAggregatorStats(st.stats),
		MasterSamples: masterSampler.Timeline(),
		WorkerSamples: st.samples,
	})
}

// loop runs the single-threaded reactor: attempt admission-gated
// spawns, then block for the next event and dispatch it, until pending
// and active are both empty.
func (s *Scheduler) loop(ctx context.Context, st *state, events chan Event, wg *conc.WaitGroup, masterSampler *memsample.Sampler, targetPath string) error {
	for {
		if err := s.fillActive(ctx, st, events, wg, masterSampler, targetPath); err != nil {
			return err
		}
		if st.idle() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			s.handle(st, ev)
		}
	}
}

// fillActive spawns as many new workers as admission allows, FIFO over
// pending.
func (s *Scheduler) fillActive(ctx context.Context, st *state, events chan<- Event, wg *conc.WaitGroup, masterSampler *memsample.Sampler, targetPath string) error {
	for len(st.pending) > 0 {
		var masterRSS uint64
		if last, ok := masterSampler.Last(); ok {
			masterRSS = last.RSSBytes
		}
		if !s.ctrl.CanSpawn(st.admissionSnapshot(masterRSS)) {
			return nil
		}
		b := st.popPending()
		st.active[b.ID] = &WorkerState{WorkerID: b.ID, Batch: b, StartTime: time.Now()}
		if err := s.spawn(ctx, wg, events, b, s.cfg.ConfigPath, targetPath); err != nil {
			slog.Error("failed to spawn worker", "worker_id", b.ID, "error", err)
			delete(st.active, b.ID)
			action := classifier.Recover(b, protocol.ErrorUnknown, err.Error(), "", s.cfg.MaxRetries, &s.batchID)
			st.requeue(action.Requeue)
			st.fail(action.Failed)
			continue
		}
	}
	return nil
}

func (s *Scheduler) handle(st *state, ev Event) {
	switch ev.Kind {
	case EventMemory:
		s.handleMemory(st, ev)
	case EventResult:
		s.handleResult(st, ev)
	case EventError:
		s.handleError(st, ev)
	case EventExit:
		s.handleExit(st, ev)
	case EventMasterTick:
		// No state transition of its own; its only purpose is to wake
		// the reactor so fillActive re-evaluates admission even when no
		// worker is active.
	}
}

func (s *Scheduler) handleMemory(st *state, ev Event) {
	ws, ok := st.active[ev.WorkerID]
	if !ok || ev.Memory == nil {
		return
	}
	ws.LastRSS = ev.Memory.RSS
	ws.HasSample = true
	st.samples[ev.WorkerID] = append(st.samples[ev.WorkerID], memsample.Sample{
		WorkerID:      ev.WorkerID,
		RSSBytes:      ev.Memory.RSS,
		HeapUsedBytes: ev.Memory.HeapUsed,
		Timestamp:     time.Unix(0, ev.Memory.Timestamp),
	})
}

func (s *Scheduler) handleResult(st *state, ev Event) {
	ws, ok := st.active[ev.WorkerID]
	if !ok || ev.Result == nil {
		return
	}
	ws.GotResult = true
	st.completed[ev.WorkerID] = ev.Result.Results
	st.stats = append(st.stats, WorkerStat{
		WorkerID:   ev.WorkerID,
		Files:      len(ev.Result.Results),
		PeakRSS:    ev.Result.PeakRSS,
		DurationMs: ev.Result.DurationMs,
	})
	s.reportProgress(len(ev.Result.Results))
}

func (s *Scheduler) reportProgress(n int) {
	if s.cfg.Progress != nil && n > 0 {
		s.cfg.Progress(n)
	}
}

func (s *Scheduler) handleError(st *state, ev Event) {
	ws, ok := st.active[ev.WorkerID]
	if !ok || ev.Error == nil {
		return
	}
	ws.Resolved = true
	action := classifier.Recover(ws.Batch, ev.Error.ErrorType, ev.Error.Message, ev.Error.File, s.cfg.MaxRetries, &s.batchID)
	st.requeue(action.Requeue)
	st.fail(action.Failed)
	s.reportProgress(len(action.Failed))
}

// handleExit retires a worker once its process has fully terminated.
// A worker that already reported a result or had its error classified
// is resolved; otherwise the exit itself (typically a SIGKILL from the
// OOM killer) is the only evidence the scheduler will ever see, so
// ClassifyExit derives the failure kind from it.
func (s *Scheduler) handleExit(st *state, ev Event) {
	ws, ok := st.active[ev.WorkerID]
	if !ok {
		return
	}
	delete(st.active, ev.WorkerID)

	if !ws.Resolved && !ws.GotResult {
		kind := classifier.ClassifyExit(ev.ExitErr)
		message := "worker exited without reporting a terminal message"
		if ev.ExitErr != nil {
			message = ev.ExitErr.Error()
		}
		action := classifier.Recover(ws.Batch, kind, message, "", s.cfg.MaxRetries, &s.batchID)
		st.requeue(action.Requeue)
		st.fail(action.Failed)
		s.reportProgress(len(action.Failed))
	}
}

func toAggregatorStats(stats []WorkerStat) []aggregator.WorkerStat {
	out := make([]aggregator.WorkerStat, len(stats))
	for i, ws := range stats {
		out[i] = aggregator.WorkerStat{WorkerID: ws.WorkerID, Files: ws.Files, PeakRSS: ws.PeakRSS, DurationMs: ws.DurationMs}
	}
	return out
}
