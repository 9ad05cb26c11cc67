package admission

// Config holds the tunables, defaulting to MaxWorkers=2,
// ContainerLimitMB=4096, MemThresholdPercent=75.
type Config struct {
	MaxWorkers          int
	ContainerLimitMB    int
	MemThresholdPercent int
}

// Threshold returns THRESHOLD_BYTES = CONTAINER_LIMIT_MB * 1024^2 *
// MEM_THRESHOLD_PERCENT / 100.
func (c Config) Threshold() uint64 {
	return uint64(c.ContainerLimitMB) * 1024 * 1024 * uint64(c.MemThresholdPercent) / 100
}

// WorkerRSS is one active worker's contribution to the aggregate: its
// most recent observed RSS, and whether a sample has arrived yet. A
// worker with no sample contributes 0, accepting a transient
// over-commit window until its first sample arrives.
type WorkerRSS struct {
	RSS       uint64
	HasSample bool
}

// Snapshot is a read-only view of the scheduler's state needed to
// decide whether another worker may be spawned. It is a value, not a
// reference into scheduler state, so the scheduler remains the sole
// owner of mutable state.
type Snapshot struct {
	MasterRSS   uint64
	ActiveCount int
	ActiveRSS   []WorkerRSS
}

// Controller evaluates CanSpawn against a fixed Config.
type Controller struct {
	cfg Config
}

// New returns a Controller for cfg.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// CanSpawn reports whether a new worker may be started:
// len(active) < MAX_WORKERS AND total_observed_rss < THRESHOLD_BYTES.
func (c *Controller) CanSpawn(s Snapshot) bool {
	if s.ActiveCount >= c.cfg.MaxWorkers {
		return false
	}
	return c.totalObservedRSS(s) < c.cfg.Threshold()
}

func (c *Controller) totalObservedRSS(s Snapshot) uint64 {
	total := s.MasterRSS
	for _, w := range s.ActiveRSS {
		if w.HasSample {
			total += w.RSS
		}
	}
	return total
}
