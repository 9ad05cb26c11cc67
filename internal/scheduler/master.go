package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/jpequegn/batchlint/internal/memsample"
)

func masterPID() int { return os.Getpid() }

// pumpMasterTicks samples the orchestrator's own memory every interval
// and pushes an EventMasterTick for each tick, so the reactor
// re-evaluates admission on the master's own cadence even while no
// worker event is in flight. It mirrors the worker-side
// pumpMemory shutdown discipline: the returned stop function blocks
// until the pump goroutine has fully exited.
func pumpMasterTicks(sampler *memsample.Sampler, interval time.Duration, events chan<- Event) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, err := sampler.Sample(""); err != nil {
					continue
				}
				select {
				case <-done:
					return
				case events <- Event{Kind: EventMasterTick}:
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
