// Package reporter prints the human-readable summary of a run: a
// colored pass/fail banner and a per-worker table, written to stderr.
package reporter
