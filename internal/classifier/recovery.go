package classifier

import (
	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// DefaultMaxRetries is the bisection depth bound for OOM recovery.
const DefaultMaxRetries = 2

// FailedFile records one file that could not be processed, with the
// reason it was abandoned. FailedFile values are never mutated after
// the recovery policy produces them.
type FailedFile struct {
	Path    string
	Reason  protocol.ErrorKind
	Message string
}

// Action is the outcome of applying the recovery policy to one
// classified worker failure: zero or more batches to push back onto
// the pending queue, and zero or more files recorded as failed.
// Exactly one of the two is non-empty for any oom/rule_crash/unknown
// outcome; a parse_error with an identified file can produce both.
type Action struct {
	Requeue []*batch.Batch
	Failed  []FailedFile
}

// Recover implements the bisect-and-retry policy for a classified
// worker failure.
//
// On parse_error with an identified file, this resolves in favor of
// a conservation invariant (every input file ends up exactly once in
// completed or failed): the
// remaining files of the batch are re-queued as a fresh batch at the
// same retry depth (not bisection, so it does not count against
// MAX_RETRIES) rather than silently dropped. See DESIGN.md.
func Recover(b *batch.Batch, kind protocol.ErrorKind, message, file string, maxRetries int, ids *batch.IDGenerator) Action {
	switch kind {
	case protocol.ErrorOOM:
		if b.Retries < maxRetries && len(b.Files) >= 2 {
			left, right, err := batch.Bisect(b, ids)
			if err != nil {
				return failAll(b, kind, message)
			}
			return Action{Requeue: []*batch.Batch{left, right}}
		}
		return failAll(b, kind, message)

	case protocol.ErrorParseError:
		if file == "" {
			return failAll(b, kind, message)
		}
		return Action{
			Failed:  []FailedFile{{Path: file, Reason: kind, Message: message}},
			Requeue: requeueRemaining(b, file, ids),
		}

	default: // rule_crash, unknown
		return failAll(b, kind, message)
	}
}

func requeueRemaining(b *batch.Batch, exclude string, ids *batch.IDGenerator) []*batch.Batch {
	remaining := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		if f != exclude {
			remaining = append(remaining, f)
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return []*batch.Batch{{ID: ids.Next(), Files: remaining, Retries: b.Retries}}
}

func failAll(b *batch.Batch, kind protocol.ErrorKind, message string) Action {
	failed := make([]FailedFile, len(b.Files))
	for i, f := range b.Files {
		failed[i] = FailedFile{Path: f, Reason: kind, Message: message}
	}
	return Action{Failed: failed}
}
