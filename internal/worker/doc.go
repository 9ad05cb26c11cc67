// Package worker implements the child-side state machine: await one
// lint task, run the analyzer while streaming memory samples, then
// send exactly one terminal message (result or error) and return so
// the process can exit.
package worker
