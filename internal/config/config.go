package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpequegn/batchlint/internal/admission"
	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
)

// ConfigFileName is the fixed name of the analyzer config file
// resolved relative to --target.
const ConfigFileName = "batchlint.config.json"

// Config is the fully resolved set of tunables a run needs.
type Config struct {
	Target string
	Glob   string

	TestScenario   string
	TestTargetFile string
	TestOOMRetries int

	MaxWorkers          int
	ContainerLimitMB    int
	MemThresholdPercent int
	MaxRetries          int
	InitialBatchDivisor int

	WorkerSampleInterval time.Duration
	MasterSampleInterval time.Duration

	OutputDir string
	Verbose   bool
}

// Defaults returns the orchestrator's documented defaults.
func Defaults() Config {
	return Config{
		Glob:                 "**/*",
		MaxWorkers:           2,
		ContainerLimitMB:     4096,
		MemThresholdPercent:  75,
		MaxRetries:           classifier.DefaultMaxRetries,
		InitialBatchDivisor:  batch.DefaultInitialDivisor,
		WorkerSampleInterval: memsample.DefaultWorkerInterval,
		MasterSampleInterval: memsample.DefaultMasterInterval,
		OutputDir:            "batchlint-out",
	}
}

// RegisterFlags adds the run command's flags to cmd and binds each to
// v under a matching key via viper's BindPFlag.
func RegisterFlags(cmd *cobra.Command, v *viper.Viper) {
	d := Defaults()

	cmd.Flags().String("target", "", "root directory to analyze (required)")
	cmd.Flags().String("glob", d.Glob, "file-selection pattern relative to --target")
	cmd.Flags().String("test", "none", "failure-injection scenario: none, oom-single, oom-persistent, parse-error, rule-crash, random-oom, slow-worker, all")
	cmd.Flags().String("test-file", "", "substring match selecting which files trigger the test scenario")
	cmd.Flags().Int("test-oom-retries", 1, "how many times oom-single/random-oom/all fire before succeeding")
	cmd.Flags().Int("max-workers", d.MaxWorkers, "maximum concurrent worker processes")
	cmd.Flags().Int("container-limit-mb", d.ContainerLimitMB, "assumed container memory budget in MiB")
	cmd.Flags().Int("mem-threshold-percent", d.MemThresholdPercent, "percent of the container budget the aggregate RSS may reach before admission is denied")
	cmd.Flags().Int("max-retries", d.MaxRetries, "bisection depth bound for OOM recovery")
	cmd.Flags().Int("initial-batch-divisor", d.InitialBatchDivisor, "divisor used to size the initial batches")
	cmd.Flags().String("output-dir", d.OutputDir, "directory persisted artifacts are written to")

	for _, name := range []string{
		"target", "glob", "test", "test-file", "test-oom-retries",
		"max-workers", "container-limit-mb", "mem-threshold-percent",
		"max-retries", "initial-batch-divisor", "output-dir",
	} {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	_ = v.BindEnv("test", "TEST_SCENARIO")
	_ = v.BindEnv("test-file", "TEST_TARGET_FILE")
	_ = v.BindEnv("test-oom-retries", "TEST_OOM_RETRIES")
}

// FromViper resolves a Config from v, after RegisterFlags has bound
// v's keys to a cobra command's flags (so every key already carries
// at least its flag default).
func FromViper(v *viper.Viper) Config {
	d := Defaults()
	return Config{
		Target:               v.GetString("target"),
		Glob:                 v.GetString("glob"),
		TestScenario:         v.GetString("test"),
		TestTargetFile:       v.GetString("test-file"),
		TestOOMRetries:       v.GetInt("test-oom-retries"),
		MaxWorkers:           v.GetInt("max-workers"),
		ContainerLimitMB:     v.GetInt("container-limit-mb"),
		MemThresholdPercent:  v.GetInt("mem-threshold-percent"),
		MaxRetries:           v.GetInt("max-retries"),
		InitialBatchDivisor:  v.GetInt("initial-batch-divisor"),
		WorkerSampleInterval: d.WorkerSampleInterval,
		MasterSampleInterval: d.MasterSampleInterval,
		OutputDir:            v.GetString("output-dir"),
		Verbose:              v.GetBool("verbose"),
	}
}

// ResolvedConfigPath returns the analyzer config path implied by
// Target.
func (c Config) ResolvedConfigPath() string {
	return filepath.Join(c.Target, ConfigFileName)
}

// AdmissionConfig projects Config's concurrency/memory fields into
// admission.Config.
func (c Config) AdmissionConfig() admission.Config {
	return admission.Config{
		MaxWorkers:          c.MaxWorkers,
		ContainerLimitMB:    c.ContainerLimitMB,
		MemThresholdPercent: c.MemThresholdPercent,
	}
}
