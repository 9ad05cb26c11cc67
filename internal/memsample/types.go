package memsample

import "time"

// Sample is a single point-in-time memory measurement.
type Sample struct {
	WorkerID      int64     `json:"worker_id"`
	RSSBytes      uint64    `json:"rss_bytes"`
	HeapUsedBytes uint64    `json:"heap_used_bytes"`
	Timestamp     time.Time `json:"timestamp"`
	// Label tags a sample taken on demand (e.g. "final"); periodic
	// ticks leave this empty.
	Label string `json:"label,omitempty"`
}

// reader abstracts the host-specific RSS/heap lookup so Sampler stays
// portable across build targets.
type reader interface {
	read(pid int) (rssBytes, heapUsedBytes uint64, err error)
}
