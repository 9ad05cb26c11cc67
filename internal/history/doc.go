// Package history is a mattn/go-sqlite3-backed log of one row per
// orchestrator run, letting a "batchlint history" subcommand show
// trend across runs.
package history
