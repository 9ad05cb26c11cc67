package memsample

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeReader struct {
	rss uint64
}

func (f *fakeReader) read(pid int) (uint64, uint64, error) {
	return atomic.AddUint64(&f.rss, 1024), 0, nil
}

func newTestSampler() (*Sampler, *fakeReader) {
	fr := &fakeReader{}
	s := New(7, 123)
	s.rd = fr
	return s, fr
}

func TestSampler_SampleAppendsAndTracksPeak(t *testing.T) {
	s, _ := newTestSampler()

	first, err := s.Sample("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Sample("final")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.RSSBytes <= first.RSSBytes {
		t.Fatalf("expected increasing RSS, got %d then %d", first.RSSBytes, second.RSSBytes)
	}
	if s.Peak() != second.RSSBytes {
		t.Errorf("expected peak %d, got %d", second.RSSBytes, s.Peak())
	}

	timeline := s.Timeline()
	if len(timeline) != 2 {
		t.Fatalf("expected 2 samples in timeline, got %d", len(timeline))
	}
	if timeline[1].Label != "final" {
		t.Errorf("expected second sample labeled %q, got %q", "final", timeline[1].Label)
	}
	for _, sample := range timeline {
		if sample.WorkerID != 7 {
			t.Errorf("expected worker id 7, got %d", sample.WorkerID)
		}
	}
}

func TestSampler_EmptyTimelinePeakIsZero(t *testing.T) {
	s, _ := newTestSampler()
	if s.Peak() != 0 {
		t.Errorf("expected peak 0 on empty timeline, got %d", s.Peak())
	}
	if _, ok := s.Last(); ok {
		t.Error("expected no last sample on empty timeline")
	}
}

func TestSampler_StartStopIdempotent(t *testing.T) {
	s, _ := newTestSampler()
	s.Start(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	// Multiple Stop calls after a single Start must be safe.
	s.Stop()
	s.Stop()
	s.Stop()

	if len(s.Timeline()) == 0 {
		t.Error("expected at least one periodic sample to have been recorded")
	}
}

func TestSampler_StopWithoutStartIsSafe(t *testing.T) {
	s, _ := newTestSampler()
	s.Stop()
}
