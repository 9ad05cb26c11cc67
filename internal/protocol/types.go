package protocol

// Kind discriminates the four message kinds that travel over the IPC
// channel.
type Kind string

const (
	KindLint    Kind = "lint"
	KindResult  Kind = "result"
	KindError   Kind = "error"
	KindMemory  Kind = "memory"
	KindUnknown Kind = "unknown"
)

// ErrorKind is the exhaustive failure taxonomy at the master boundary.
type ErrorKind string

const (
	ErrorOOM        ErrorKind = "oom"
	ErrorParseError ErrorKind = "parse_error"
	ErrorRuleCrash  ErrorKind = "rule_crash"
	ErrorUnknown    ErrorKind = "unknown"
)

// LintMessage is sent master -> worker to assign a task.
type LintMessage struct {
	WorkerID   int64    `json:"worker_id"`
	ConfigPath string   `json:"config_path"`
	Files      []string `json:"files"`
	TargetPath string   `json:"target_path,omitempty"`
}

// ResultRecord is one opaque per-file diagnostic record. The core
// never inspects anything beyond the two aggregate counters.
type ResultRecord struct {
	Path         string `json:"path"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
}

// ResultMessage is sent worker -> master on successful completion.
type ResultMessage struct {
	WorkerID   int64          `json:"worker_id"`
	Results    []ResultRecord `json:"results"`
	PeakRSS    uint64         `json:"peak_rss"`
	DurationMs int64          `json:"duration_ms"`
}

// ErrorMessage is sent worker -> master on a terminal failure.
type ErrorMessage struct {
	WorkerID  int64     `json:"worker_id"`
	ErrorType ErrorKind `json:"error_type"`
	Message   string    `json:"message"`
	File      string    `json:"file,omitempty"`
}

// MemoryMessage is sent worker -> master on every sampling tick.
type MemoryMessage struct {
	WorkerID  int64  `json:"worker_id"`
	RSS       uint64 `json:"rss"`
	HeapUsed  uint64 `json:"heap_used"`
	Timestamp int64  `json:"timestamp"` // unix nanos
}

// Envelope is the outer frame every message is wrapped in; Payload
// carries the kind-specific JSON object.
type Envelope struct {
	Kind    Kind           `json:"kind"`
	Payload jsonRawMessage `json:"payload"`
}
