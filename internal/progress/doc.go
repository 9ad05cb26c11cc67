// Package progress wraps schollz/progressbar/v3 into a small tracker
// the scheduler ticks once per file that leaves the active set
// (completed or failed), visible on stderr and never written to
// persisted artifacts.
package progress
