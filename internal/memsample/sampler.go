package memsample

import (
	"sync"
	"time"
)

// DefaultWorkerInterval is the sampling cadence inside a worker process.
const DefaultWorkerInterval = 200 * time.Millisecond

// DefaultMasterInterval is the sampling cadence inside the orchestrator.
const DefaultMasterInterval = 500 * time.Millisecond

// Sampler periodically samples a process's memory and keeps a running
// peak and timeline. A zero-value Sampler must not be used; create one
// with New.
type Sampler struct {
	workerID int64
	pid      int
	rd       reader

	mu       sync.Mutex
	samples  []Sample
	peakRSS  uint64
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a Sampler for the process identified by pid, tagging
// every sample with workerID (0 for the orchestrator's own samples).
func New(workerID int64, pid int) *Sampler {
	return &Sampler{
		workerID: workerID,
		pid:      pid,
		rd:       defaultReader(),
	}
}

// Start installs a periodic tick at interval; each tick appends an
// unlabeled sample. Calling Start on an already-running Sampler is a
// no-op.
func (s *Sampler) Start(interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.stopOnce = sync.Once{}
	s.mu.Unlock()

	go s.loop(interval)
}

func (s *Sampler) loop(interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			_, _ = s.Sample("")
		}
	}
}

// Stop cancels the periodic tick. It is idempotent: calling it any
// number of times after a single Start is safe, including before
// Start has ever been called.
func (s *Sampler) Stop() {
	s.mu.Lock()
	running := s.running
	stopCh := s.stopCh
	doneCh := s.doneCh
	s.running = false
	s.mu.Unlock()

	if !running || stopCh == nil {
		return
	}
	s.stopOnce.Do(func() { close(stopCh) })
	if doneCh != nil {
		<-doneCh
	}
}

// Sample takes an immediate reading, appends it to the timeline, and
// returns it. label is stored verbatim (empty for periodic ticks).
func (s *Sampler) Sample(label string) (Sample, error) {
	rss, heap, err := s.rd.read(s.pid)
	if err != nil {
		return Sample{}, err
	}

	sample := Sample{
		WorkerID:      s.workerID,
		RSSBytes:      rss,
		HeapUsedBytes: heap,
		Timestamp:     time.Now(),
		Label:         label,
	}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	if rss > s.peakRSS {
		s.peakRSS = rss
	}
	s.mu.Unlock()

	return sample, nil
}

// Peak returns the maximum RSS ever observed. An empty timeline
// yields 0.
func (s *Sampler) Peak() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peakRSS
}

// Timeline returns a copy of every sample taken so far, in order.
func (s *Sampler) Timeline() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Last returns the most recent sample and true, or the zero Sample
// and false if none has been taken yet.
func (s *Sampler) Last() (Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}
