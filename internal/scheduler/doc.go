// Package scheduler implements the orchestrator: a single threaded,
// cooperative event reactor that maintains the pending queue, active
// worker set, completed results, and failure list, and drives the
// admission-gated spawn loop.
//
// Every state transition happens inside Run's event loop in response
// to one of three event classes: an inbound IPC message, a worker
// process exit notification, or a sampler tick. No other component
// holds a reference to the scheduler's mutable state.
package scheduler
