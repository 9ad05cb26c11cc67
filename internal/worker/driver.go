package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jpequegn/batchlint/internal/analyzer"
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// Options configures one worker process run.
type Options struct {
	Analyzer       analyzer.Analyzer
	Scenario       ScenarioConfig
	SampleInterval time.Duration // default memsample.DefaultWorkerInterval
}

// Run executes the AWAIT_TASK -> LINTING -> REPORTING_OK|REPORTING_ERR
// state machine against a single lint task read from in. It sends at
// most one terminal message to out and returns nil once that message
// has been written; the caller (cmd/worker.go) then exits the process
// with status 0.
//
// A panic during LINTING is caught here and reported as a terminal
// error message with error_type=unknown instead of crashing the
// process silently.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (runErr error) {
	dec := protocol.NewDecoder(in)
	enc := protocol.NewEncoder(out)

	msg, err := dec.Decode()
	if err != nil {
		return fmt.Errorf("worker: await task: %w", err)
	}
	if msg.Kind != protocol.KindLint || msg.Lint == nil {
		return fmt.Errorf("worker: expected a lint message, got kind %q", msg.Kind)
	}
	task := *msg.Lint

	log := slog.With("worker_id", task.WorkerID)

	var stopPump func()
	defer func() {
		if r := recover(); r != nil {
			if stopPump != nil {
				stopPump()
			}
			log.Error("worker panicked during linting", "panic", r)
			if sendErr := enc.EncodeError(protocol.ErrorMessage{
				WorkerID:  task.WorkerID,
				ErrorType: protocol.ErrorUnknown,
				Message:   fmt.Sprintf("panic: %v", r),
			}); sendErr != nil {
				log.Error("failed to report panic to orchestrator", "error", sendErr)
			}
			runErr = nil
		}
	}()

	interval := opts.SampleInterval
	if interval <= 0 {
		interval = memsample.DefaultWorkerInterval
	}

	sampler := memsample.New(task.WorkerID, os.Getpid())
	stopPump = pumpMemory(sampler, interval, enc, log)

	log.Info("linting started", "files", len(task.Files), "config", task.ConfigPath)
	start := time.Now()
	result, lintErr := runScenario(ctx, opts.Scenario, opts.Analyzer, task.ConfigPath, task.Files)
	duration := time.Since(start)
	stopPump()
	stopPump = nil

	if lintErr != nil {
		kind := classifier.ClassifyMessage(lintErr.Error())
		file := ""
		var fe *fileError
		if errors.As(lintErr, &fe) {
			file = fe.file
		}
		log.Warn("linting failed", "error_type", kind, "error", lintErr, "file", file)
		if err := enc.EncodeError(protocol.ErrorMessage{
			WorkerID:  task.WorkerID,
			ErrorType: kind,
			Message:   lintErr.Error(),
			File:      file,
		}); err != nil {
			return fmt.Errorf("worker: send error message: %w", err)
		}
		return nil
	}

	log.Info("linting completed", "files", len(result.Records), "peak_rss", sampler.Peak(), "duration", duration)
	if err := enc.EncodeResult(protocol.ResultMessage{
		WorkerID:   task.WorkerID,
		Results:    result.Records,
		PeakRSS:    sampler.Peak(),
		DurationMs: duration.Milliseconds(),
	}); err != nil {
		return fmt.Errorf("worker: send result message: %w", err)
	}
	return nil
}

// pumpMemory samples the current process every interval and emits a
// memory message for each sample until the returned stop function is
// called. It runs detached from the caller's goroutine, but its
// lifetime is strictly bounded by LINTING: stop always returns only
// after the pump goroutine has exited, so it can never emit a sample
// after REPORTING_OK/REPORTING_ERR has begun.
func pumpMemory(sampler *memsample.Sampler, interval time.Duration, enc *protocol.Encoder, log *slog.Logger) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sample, err := sampler.Sample("")
				if err != nil {
					log.Warn("memory sample failed", "error", err)
					continue
				}
				if err := enc.EncodeMemory(protocol.MemoryMessage{
					WorkerID:  sample.WorkerID,
					RSS:       sample.RSSBytes,
					HeapUsed:  sample.HeapUsedBytes,
					Timestamp: sample.Timestamp.UnixNano(),
				}); err != nil {
					log.Warn("memory message send failed", "error", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
