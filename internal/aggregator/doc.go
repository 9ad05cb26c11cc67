// Package aggregator consumes the scheduler's terminal state,
// computes Summary totals, and
// persists the on-disk artifacts (summary.json, master-memory.json,
// worker-<id>-results.json, worker-<id>-memory.json) using
// goccy/go-json.
package aggregator
