// Package batch implements the unit of work the scheduler hands to a
// worker: an ordered, non-empty list of files plus a retry depth, and
// the bisection operation used to recover from OOM kills.
package batch

// Batch is an immutable record describing one worker assignment.
type Batch struct {
	// ID is a monotonically increasing identifier, unique across the run.
	ID int64

	// Files is the ordered, non-empty list of absolute paths to lint.
	Files []string

	// Retries is the bisection depth: 0 for an initial batch, incremented
	// by one on every bisection of an OOM-failing parent.
	Retries int
}

// IDGenerator hands out strictly increasing, never-reused batch ids.
type IDGenerator struct {
	next int64
}

// Next returns the next batch id.
func (g *IDGenerator) Next() int64 {
	id := g.next
	g.next++
	return id
}
