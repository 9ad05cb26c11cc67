package scheduler

import (
	"time"

	"github.com/jpequegn/batchlint/internal/batch"
	"github.com/jpequegn/batchlint/internal/memsample"
	"github.com/jpequegn/batchlint/internal/protocol"
)

// Config is the set of tunables Run needs. It is a plain value so
// callers (internal/config, internal/cmd) stay decoupled from the
// scheduler's internals.
type Config struct {
	MaxWorkers           int
	ContainerLimitMB     int
	MemThresholdPercent  int
	MaxRetries           int
	InitialBatchDivisor  int
	WorkerSampleInterval time.Duration
	MasterSampleInterval time.Duration
	ConfigPath           string
	OutputDir            string

	// Progress, if non-nil, is called with the number of files that
	// just became terminally resolved (completed or failed), for a
	// caller-owned progress indicator. It is invoked synchronously from
	// the reactor loop, so it must not block.
	Progress func(n int)
}

// WorkerState is the orchestrator's exclusive record of one in-flight
// worker. It is owned by the scheduler alone; no other component
// ever sees a pointer into it.
type WorkerState struct {
	WorkerID  int64
	Batch     *batch.Batch
	StartTime time.Time
	Samples   []memsample.Sample
	LastRSS   uint64
	HasSample bool
	GotResult bool
	Resolved  bool // true once a terminal error has already been classified
}

// EventKind discriminates the reactor's unified inbound event stream.
type EventKind int

const (
	EventMemory EventKind = iota
	EventResult
	EventError
	EventExit
	EventMasterTick
)

// Event is the single type every one of the reactor's three event
// classes is normalized into before reaching Run's select loop.
type Event struct {
	WorkerID int64
	Kind     EventKind
	Memory   *protocol.MemoryMessage
	Result   *protocol.ResultMessage
	Error    *protocol.ErrorMessage
	ExitErr  error // set only for EventExit; nil means the process exited 0
}
