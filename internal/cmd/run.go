package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpequegn/batchlint/internal/aggregator"
	"github.com/jpequegn/batchlint/internal/config"
	"github.com/jpequegn/batchlint/internal/discovery"
	"github.com/jpequegn/batchlint/internal/history"
	"github.com/jpequegn/batchlint/internal/progress"
	"github.com/jpequegn/batchlint/internal/reporter"
	"github.com/jpequegn/batchlint/internal/scheduler"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Lint a directory tree with a memory-aware worker pool",
	Long: `Run discovers files under --target, partitions them into
batches, and drives the batches through admission-gated worker
processes, bisecting and retrying any batch killed for exceeding
memory.

Example:
  batchlint run --target ./src --max-workers 4`,
	RunE: runLint,
}

var runViper = viper.New()

func init() {
	rootCmd.AddCommand(runCmd)
	runViper.SetEnvPrefix("BATCHLINT")
	runViper.AutomaticEnv()
	config.RegisterFlags(runCmd, runViper)
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg := config.FromViper(runViper)

	if cfg.Target == "" {
		return fmt.Errorf("run: --target is required")
	}
	if _, err := os.Stat(cfg.Target); err != nil {
		return fmt.Errorf("run: target %q: %w", cfg.Target, err)
	}
	configPath := cfg.ResolvedConfigPath()
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("run: missing analyzer config %q: %w", configPath, err)
	}

	files, err := discovery.Discover(cfg.Target, cfg.Glob)
	if err != nil {
		return fmt.Errorf("run: discover files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("run: no files under %q match %q", cfg.Target, cfg.Glob)
	}

	// Re-exec'd __worker children read scenario configuration from
	// their own environment, not from this process's viper instance;
	// exporting it here makes --test/--test-file/--test-oom-retries
	// behave identically whether they arrived as flags or as the
	// already-prefixed-free TEST_* environment variables containerized
	// deployments are expected to set directly.
	_ = os.Setenv("TEST_SCENARIO", cfg.TestScenario)
	_ = os.Setenv("TEST_TARGET_FILE", cfg.TestTargetFile)
	_ = os.Setenv("TEST_OOM_RETRIES", strconv.Itoa(cfg.TestOOMRetries))
	// The scenario attempt counter is shared by this run's workers only;
	// start it from zero rather than from a previous run's count.
	_ = os.Remove(scenarioCounterPath())

	tracker := progress.New(len(files))
	sched := scheduler.New(scheduler.Config{
		MaxWorkers:           cfg.MaxWorkers,
		ContainerLimitMB:     cfg.ContainerLimitMB,
		MemThresholdPercent:  cfg.MemThresholdPercent,
		MaxRetries:           cfg.MaxRetries,
		InitialBatchDivisor:  cfg.InitialBatchDivisor,
		WorkerSampleInterval: cfg.WorkerSampleInterval,
		MasterSampleInterval: cfg.MasterSampleInterval,
		ConfigPath:           configPath,
		OutputDir:            cfg.OutputDir,
		Progress: func(n int) {
			for i := 0; i < n; i++ {
				tracker.Tick()
			}
		},
	})

	start := time.Now()
	summary, err := sched.Run(context.Background(), files, cfg.Target)
	duration := time.Since(start)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	reporter.Print(os.Stderr, summary)
	recordHistory(cfg, summary, duration)

	if !summary.Success() {
		return fmt.Errorf("%d file(s) failed", summary.FailedFiles)
	}
	return nil
}

// recordHistory persists this run's totals for `batchlint history`. A
// failure to open or write the store is logged, not fatal: history is
// an operator convenience, not part of the run's correctness contract.
func recordHistory(cfg config.Config, summary aggregator.Summary, duration time.Duration) {
	store, err := history.Open(filepath.Join(cfg.OutputDir, "history.db"))
	if err != nil {
		slog.Warn("failed to open run history store", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	err = store.Record(history.Run{
		Target:         cfg.Target,
		Timestamp:      time.Now(),
		DurationMs:     duration.Milliseconds(),
		TotalFiles:     summary.TotalFiles,
		ProcessedFiles: summary.ProcessedFiles,
		FailedFiles:    summary.FailedFiles,
		TotalErrors:    summary.TotalErrors,
		TotalWarnings:  summary.TotalWarnings,
	})
	if err != nil {
		slog.Warn("failed to record run history", "error", err)
	}
}
