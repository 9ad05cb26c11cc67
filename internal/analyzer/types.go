package analyzer

import (
	"context"

	"github.com/jpequegn/batchlint/internal/protocol"
)

// Result is the opaque outcome of running the analyzer against a set
// of files: a per-file diagnostic record exposing only the two
// aggregate counters the core is allowed to look at.
type Result struct {
	Records []protocol.ResultRecord
}

// Analyzer is the external collaborator boundary. Implementations run
// a config file against a list of absolute file paths and return
// Result, or an error describing why they could not.
//
// Analyzer implementations are expected to run in a single worker
// process and are never shared across workers.
type Analyzer interface {
	Run(ctx context.Context, configPath string, files []string) (Result, error)
}
