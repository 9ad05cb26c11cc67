package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jpequegn/batchlint/internal/analyzer"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/worker"
)

// inboundFD and outboundFD are the fixed file descriptor numbers the
// orchestrator wires a __worker child's task and report channels to
// via exec.Cmd.ExtraFiles (fd 3 is ExtraFiles[0], fd 4 is
// ExtraFiles[1]); stdin/stdout/stderr (0-2) stay inherited for
// human-readable logging.
const (
	inboundFD  = 3
	outboundFD = 4
)

// scenarioCounterPath is a fixed path every re-exec'd worker process
// agrees on, since each failure-injection retry starts a brand new,
// stateless process with no shared memory to count attempts in.
func scenarioCounterPath() string {
	return filepath.Join(os.TempDir(), "batchlint-scenario-counter")
}

// workerCmd is the hidden entry point the orchestrator re-execs itself
// as to become a worker process. It is never invoked directly by a
// user.
var workerCmd = &cobra.Command{
	Use:    workerSubcommandName,
	Hidden: true,
	RunE:   runWorker,
}

const workerSubcommandName = "__worker"

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	in := os.NewFile(inboundFD, "batchlint-in")
	out := os.NewFile(outboundFD, "batchlint-out")
	if in == nil || out == nil {
		return fmt.Errorf("worker: expected IPC file descriptors %d and %d to be open", inboundFD, outboundFD)
	}
	defer func() { _ = in.Close() }()
	defer func() { _ = out.Close() }()

	retries, _ := strconv.Atoi(os.Getenv("TEST_OOM_RETRIES"))

	opts := worker.Options{
		Analyzer: analyzer.NewFake(),
		Scenario: worker.ScenarioConfig{
			Scenario:    worker.Scenario(os.Getenv("TEST_SCENARIO")),
			TargetFile:  os.Getenv("TEST_TARGET_FILE"),
			OOMRetries:  retries,
			CounterPath: scenarioCounterPath(),
		},
		SampleInterval: memsample.DefaultWorkerInterval,
	}

	return worker.Run(context.Background(), in, out, opts)
}
