package aggregator

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/jpequegn/batchlint/internal/classifier"
)

// Finalize persists the run's artifacts under outputDir and returns
// the computed Summary. It always runs, even when fs.Failed is
// non-empty.
func Finalize(outputDir string, fs FinalState) (Summary, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("aggregator: create output dir: %w", err)
	}

	for workerID, records := range fs.Completed {
		path := filepath.Join(outputDir, fmt.Sprintf("worker-%d-results.json", workerID))
		if err := writeJSON(path, records); err != nil {
			return Summary{}, err
		}
	}

	for workerID, samples := range fs.WorkerSamples {
		path := filepath.Join(outputDir, fmt.Sprintf("worker-%d-memory.json", workerID))
		if err := writeJSON(path, samples); err != nil {
			return Summary{}, err
		}
	}

	if err := writeJSON(filepath.Join(outputDir, "master-memory.json"), fs.MasterSamples); err != nil {
		return Summary{}, err
	}

	summary := build(fs)
	if err := writeJSON(filepath.Join(outputDir, "summary.json"), summary); err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func build(fs FinalState) Summary {
	summary := Summary{
		TotalFiles: fs.TotalFiles,
		Workers:    fs.WorkerStats,
		Failures:   fs.Failed,
	}
	if summary.Failures == nil {
		summary.Failures = []classifier.FailedFile{}
	}

	for _, records := range fs.Completed {
		summary.ProcessedFiles += len(records)
		for _, r := range records {
			summary.TotalErrors += r.ErrorCount
			summary.TotalWarnings += r.WarningCount
		}
	}
	summary.FailedFiles = len(fs.Failed)

	if summary.TotalFiles == 0 {
		summary.TotalFiles = summary.ProcessedFiles + summary.FailedFiles
	}

	return summary
}

func writeJSON(path string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("aggregator: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("aggregator: write %s: %w", path, err)
	}
	return nil
}
