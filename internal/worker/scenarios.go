package worker

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jpequegn/batchlint/internal/analyzer"
)

// Scenario names the failure-injection modes a worker can simulate.
// They must be unreachable when Scenario == ScenarioNone.
type Scenario string

const (
	ScenarioNone          Scenario = "none"
	ScenarioOOMSingle     Scenario = "oom-single"
	ScenarioOOMPersistent Scenario = "oom-persistent"
	ScenarioParseError    Scenario = "parse-error"
	ScenarioRuleCrash     Scenario = "rule-crash"
	ScenarioRandomOOM     Scenario = "random-oom"
	ScenarioSlowWorker    Scenario = "slow-worker"
	ScenarioAll           Scenario = "all"
)

// ScenarioConfig gates and parameterizes failure injection.
type ScenarioConfig struct {
	Scenario Scenario
	// TargetFile is a substring match against each file in the batch;
	// the scenario fires only for a batch containing a match.
	TargetFile string
	// OOMRetries bounds how many times oom-single/random-oom/all kill
	// the matching batch before letting it succeed; a value below 1 is
	// treated as 1. Because every kill
	// starts a brand new, stateless process with no shared memory, the
	// count is tracked in CounterPath, a small file on the shared
	// filesystem the isolated worker processes can agree on.
	OOMRetries  int
	CounterPath string
}

func (c ScenarioConfig) enabled() bool {
	return c.Scenario != "" && c.Scenario != ScenarioNone
}

func (c ScenarioConfig) matches(files []string) bool {
	if c.TargetFile == "" {
		return false
	}
	for _, f := range files {
		if strings.Contains(f, c.TargetFile) {
			return true
		}
	}
	return false
}

// fileError pairs a lint failure with the single file it is
// attributable to, letting the recovery policy isolate it instead of
// failing the whole batch.
type fileError struct {
	file string
	err  error
}

func (e *fileError) Error() string { return e.err.Error() }
func (e *fileError) Unwrap() error { return e.err }

// runScenario invokes the analyzer an, applying failure injection
// first when cfg is enabled and matches the task's files. It is the
// sole entry point LINTING uses to reach the analyzer, so a disabled
// scenario can never influence the outcome.
func runScenario(ctx context.Context, cfg ScenarioConfig, an analyzer.Analyzer, configPath string, files []string) (analyzer.Result, error) {
	if !cfg.enabled() || !cfg.matches(files) {
		return an.Run(ctx, configPath, files)
	}

	switch cfg.Scenario {
	case ScenarioOOMPersistent:
		killSelf()
		// unreachable: killSelf terminates the process.

	case ScenarioOOMSingle, ScenarioRandomOOM, ScenarioAll:
		n, err := incrementCounter(cfg.CounterPath)
		if err == nil && n <= max(cfg.OOMRetries, 1) {
			killSelf()
		}
		// counter exhausted or unreadable: fall through to a normal run.

	case ScenarioParseError:
		return analyzer.Result{}, &fileError{file: cfg.TargetFile, err: fmt.Errorf("Parsing error: unexpected token in %s", cfg.TargetFile)}

	case ScenarioRuleCrash:
		return analyzer.Result{}, fmt.Errorf(`Rule crashed while running rule "no-undef" on %s`, cfg.TargetFile)

	case ScenarioSlowWorker:
		select {
		case <-ctx.Done():
			return analyzer.Result{}, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return an.Run(ctx, configPath, files)
}

// killSelf terminates the current process the way the host kernel's
// OOM killer would: no terminal message, no clean exit. The parent
// observes this as a SIGKILL exit, classified as oom.
func killSelf() {
	_ = syscall.Kill(os.Getpid(), syscall.SIGKILL)
	// If the signal hasn't been delivered by the time control returns
	// (observed under some test harnesses), force the same observable
	// outcome via exit code 137.
	os.Exit(137)
}

func incrementCounter(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("worker: scenario requires a counter path")
	}
	data, _ := os.ReadFile(path)
	n, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	n++
	if err := os.WriteFile(path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return n, err
	}
	return n, nil
}
