package analyzer

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/jpequegn/batchlint/internal/protocol"
)

// Fake is a deterministic stand-in for the real external analyzer. It
// never shells out; it "lints" a file by hashing its path into a
// reproducible error/warning count. It exists because the real
// analyzer is explicitly out of scope: batchlint's core
// must be exercisable end to end without one.
type Fake struct{}

// NewFake returns a Fake analyzer.
func NewFake() *Fake { return &Fake{} }

// Run reads config as a sanity check (it must exist) and produces one
// ResultRecord per file.
func (Fake) Run(ctx context.Context, configPath string, files []string) (Result, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return Result{}, fmt.Errorf("analyzer: config %q: %w", configPath, err)
		}
	}

	records := make([]protocol.ResultRecord, 0, len(files))
	for _, f := range files {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(f))
		sum := h.Sum32()
		records = append(records, protocol.ResultRecord{
			Path:         f,
			ErrorCount:   int(sum % 3),
			WarningCount: int((sum / 3) % 5),
		})
	}
	return Result{Records: records}, nil
}
