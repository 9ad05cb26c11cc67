// Package analyzer defines the boundary to the external analyzer
// (a linter/type-checker) that batchlint treats as a black box: it
// accepts a config file path plus a list of input paths and returns
// per-file diagnostic records. The core never inspects those records
// beyond two aggregate counters.
//
// This package also hosts the two small out-of-scope collaborators
// this module treats as pure, self-contained transformations rather than
// analyzer internals: legacy-to-modern config conversion, and a fake
// analyzer used by tests and by the worker's failure-injection
// scenarios.
package analyzer
