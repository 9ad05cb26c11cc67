package aggregator

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/jpequegn/batchlint/internal/classifier"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

func TestFinalize_ComputesTotalsAndPersistsArtifacts(t *testing.T) {
	dir := t.TempDir()

	fs := FinalState{
		TotalFiles: 4,
		Completed: map[int64][]protocol.ResultRecord{
			1: {{Path: "a.go", ErrorCount: 2, WarningCount: 1}, {Path: "b.go", ErrorCount: 0, WarningCount: 3}},
		},
		Failed: []classifier.FailedFile{
			{Path: "c.go", Reason: protocol.ErrorParseError, Message: "Parsing error"},
			{Path: "d.go", Reason: protocol.ErrorOOM, Message: "killed"},
		},
		WorkerStats: []WorkerStat{
			{WorkerID: 1, Files: 2, PeakRSS: 1 << 20, DurationMs: 150},
		},
		MasterSamples: []memsample.Sample{{RSSBytes: 1 << 18}},
		WorkerSamples: map[int64][]memsample.Sample{
			1: {{WorkerID: 1, RSSBytes: 1 << 20}},
		},
	}

	summary, err := Finalize(dir, fs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", summary.TotalFiles)
	}
	if summary.ProcessedFiles != 2 {
		t.Errorf("ProcessedFiles = %d, want 2", summary.ProcessedFiles)
	}
	if summary.FailedFiles != 2 {
		t.Errorf("FailedFiles = %d, want 2", summary.FailedFiles)
	}
	if summary.TotalErrors != 2 || summary.TotalWarnings != 4 {
		t.Errorf("totals = (%d errors, %d warnings), want (2, 4)", summary.TotalErrors, summary.TotalWarnings)
	}
	if summary.Success() {
		t.Error("expected Success() false with non-empty failures")
	}

	for _, name := range []string{"summary.json", "master-memory.json", "worker-1-results.json", "worker-1-memory.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}

	var persisted Summary
	body, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary.json: %v", err)
	}
	if err := json.Unmarshal(body, &persisted); err != nil {
		t.Fatalf("unmarshal summary.json: %v", err)
	}
	if persisted.ProcessedFiles != summary.ProcessedFiles {
		t.Errorf("persisted summary disagrees with returned summary: %+v vs %+v", persisted, summary)
	}
}

func TestFinalize_DerivesTotalFilesWhenUnset(t *testing.T) {
	dir := t.TempDir()
	fs := FinalState{
		Completed: map[int64][]protocol.ResultRecord{1: {{Path: "a.go"}}},
		Failed:    []classifier.FailedFile{{Path: "b.go", Reason: protocol.ErrorRuleCrash}},
	}
	summary, err := Finalize(dir, fs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if summary.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", summary.TotalFiles)
	}
}

func TestFinalize_AllSuccessHasEmptyFailuresList(t *testing.T) {
	dir := t.TempDir()
	fs := FinalState{
		Completed: map[int64][]protocol.ResultRecord{1: {{Path: "a.go"}}},
	}
	summary, err := Finalize(dir, fs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !summary.Success() {
		t.Error("expected Success() true")
	}
	if summary.Failures == nil || len(summary.Failures) != 0 {
		t.Errorf("expected an empty, non-nil Failures slice, got %v", summary.Failures)
	}
}
