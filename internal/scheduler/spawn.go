package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// workerSubcommand is the hidden cobra subcommand a re-exec'd child
// process runs as. cmd/worker.go registers it.
const workerSubcommand = "__worker"

// SpawnFunc starts one worker process for b and pumps its IPC traffic
// onto events until the worker exits, at which point it emits exactly
// one terminal EventExit. It is injectable so scheduler_test.go can
// substitute an in-memory fake.
type SpawnFunc func(ctx context.Context, wg *conc.WaitGroup, events chan<- Event, b *batch.Batch, configPath, targetPath string) error

// Spawn re-executes the current binary as a __worker child process
// wired to the parent over two pipes passed through ExtraFiles,
// grounded on the self-reexec pattern of a job-worker IPC harness: the
// child inherits stdout/stderr for human-readable logging and talks
// the length-delimited protocol over file descriptors 3 and 4.
func Spawn(ctx context.Context, wg *conc.WaitGroup, events chan<- Event, b *batch.Batch, configPath, targetPath string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("scheduler: resolve executable: %w", err)
	}

	toWorkerR, toWorkerW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("scheduler: create inbound pipe: %w", err)
	}
	fromWorkerR, fromWorkerW, err := os.Pipe()
	if err != nil {
		_ = toWorkerR.Close()
		_ = toWorkerW.Close()
		return fmt.Errorf("scheduler: create outbound pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, exe, workerSubcommand)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{toWorkerR, fromWorkerW}

	if err := cmd.Start(); err != nil {
		_ = toWorkerR.Close()
		_ = toWorkerW.Close()
		_ = fromWorkerR.Close()
		_ = fromWorkerW.Close()
		return fmt.Errorf("scheduler: start worker %d: %w", b.ID, err)
	}

	// The child owns these ends now; only the parent's ends survive
	// past Start.
	_ = toWorkerR.Close()
	_ = fromWorkerW.Close()

	enc := protocol.NewEncoder(toWorkerW)
	if err := enc.EncodeLint(protocol.LintMessage{
		WorkerID:   b.ID,
		ConfigPath: configPath,
		Files:      b.Files,
		TargetPath: targetPath,
	}); err != nil {
		_ = toWorkerW.Close()
		_ = fromWorkerR.Close()
		_ = cmd.Process.Kill()
		return fmt.Errorf("scheduler: assign worker %d: %w", b.ID, err)
	}

	var local sync.WaitGroup
	local.Add(2)

	var waitErr error
	wg.Go(func() { pumpIPC(fromWorkerR, b.ID, events, &local) })
	wg.Go(func() { waitErr = watchExit(cmd, toWorkerW, &local) })
	wg.Go(func() {
		local.Wait()
		// local.Wait() happens-after both Done() calls above, so this
		// read of waitErr is not racing its single write in watchExit.
		events <- Event{WorkerID: b.ID, Kind: EventExit, ExitErr: waitErr}
	})

	return nil
}

// pumpIPC decodes every inbound message from a worker and forwards it
// as an Event until the pipe closes (EOF on process exit) or a framing
// error occurs. Framing errors are not themselves forwarded as events:
// the exit-watch goroutine's EventExit, driven by the same process's
// cmd.Wait(), is the scheduler's single source of truth for a failed
// worker.
func pumpIPC(r io.ReadCloser, workerID int64, events chan<- Event, local *sync.WaitGroup) {
	defer local.Done()
	defer func() { _ = r.Close() }()

	dec := protocol.NewDecoder(r)
	for {
		msg, err := dec.Decode()
		if err != nil {
			return
		}
		switch msg.Kind {
		case protocol.KindMemory:
			events <- Event{WorkerID: workerID, Kind: EventMemory, Memory: msg.Memory}
		case protocol.KindResult:
			events <- Event{WorkerID: workerID, Kind: EventResult, Result: msg.Result}
		case protocol.KindError:
			events <- Event{WorkerID: workerID, Kind: EventError, Error: msg.Error}
		}
	}
}

// watchExit blocks until the worker process exits, then releases the
// parent's side of the inbound pipe and returns the process's exit
// error (nil for a clean exit).
func watchExit(cmd *exec.Cmd, toWorkerW io.Closer, local *sync.WaitGroup) error {
	defer local.Done()
	err := cmd.Wait()
	_ = toWorkerW.Close()
	return err
}
