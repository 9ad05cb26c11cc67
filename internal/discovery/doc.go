// Package discovery resolves a --target root and --glob pattern into
// the concrete file list the scheduler partitions into batches.
//
// No glob/ignore library in the reference corpus fits: the only one
// present (go-git's gitignore package) brings git-repository semantics
// (.gitignore parsing, git root detection) batchlint has no use for.
// This is a deliberate stdlib exception built on path/filepath.
package discovery
