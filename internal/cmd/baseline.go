package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpequegn/batchlint/internal/aggregator"
	"github.com/jpequegn/batchlint/internal/analyzer"
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/config"
	"github.com/jpequegn/batchlint/internal/discovery"
	"github.com/jpequegn/batchlint/internal/protocol"
	"github.com/jpequegn/batchlint/internal/reporter"
)

// baselineCmd represents the baseline command
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Lint a directory tree in a single process, with no worker isolation",
	Long: `Baseline discovers files the same way run does and invokes the
analyzer directly in this process, with no batching, worker pool, or
memory-driven recovery. It exists to give a correctness and
performance comparison point for run.`,
	RunE: runBaseline,
}

var baselineViper = viper.New()

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineViper.SetEnvPrefix("BATCHLINT")
	baselineViper.AutomaticEnv()
	config.RegisterFlags(baselineCmd, baselineViper)
}

func runBaseline(cmd *cobra.Command, args []string) error {
	cfg := config.FromViper(baselineViper)

	if cfg.Target == "" {
		return fmt.Errorf("baseline: --target is required")
	}
	configPath := cfg.ResolvedConfigPath()
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("baseline: missing analyzer config %q: %w", configPath, err)
	}

	files, err := discovery.Discover(cfg.Target, cfg.Glob)
	if err != nil {
		return fmt.Errorf("baseline: discover files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("baseline: no files under %q match %q", cfg.Target, cfg.Glob)
	}

	an := analyzer.NewFake()
	result, runErr := an.Run(context.Background(), configPath, files)

	state := aggregator.FinalState{TotalFiles: len(files)}
	if runErr != nil {
		kind := classifier.ClassifyMessage(runErr.Error())
		state.Failed = make([]classifier.FailedFile, len(files))
		for i, f := range files {
			state.Failed[i] = classifier.FailedFile{Path: f, Reason: kind, Message: runErr.Error()}
		}
	} else {
		state.Completed = map[int64][]protocol.ResultRecord{0: result.Records}
	}

	summary, err := aggregator.Finalize(cfg.OutputDir, state)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	reporter.Print(os.Stderr, summary)
	if !summary.Success() {
		return fmt.Errorf("%d file(s) failed", summary.FailedFiles)
	}
	return nil
}
