// Package memsample provides periodic RSS/heap sampling of a process
// (the orchestrator's own, or a worker's, identified by pid).
//
// Sampling reads the host OS's process-metrics facility and never
// blocks the sampled computation for more than the cost of a single
// metrics read. Samples are totally ordered by timestamp within a
// single Sampler.
//
// There is no third-party process-metrics library anywhere in the
// reference corpus this package was grounded on, so RSS is read
// directly from /proc/<pid>/status on Linux; heap usage for the
// current process additionally uses runtime.ReadMemStats.
package memsample
