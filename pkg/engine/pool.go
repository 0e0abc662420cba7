package engine

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// barrier is a reusable synchronization point for a fixed set of workers.
// Workers cooperate in phases: all load their shards, meet at the barrier,
// the leader settles the dataflow, and a second barrier releases everyone
// into the next phase.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation int
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all parties have arrived.
func (b *barrier) wait() {
	b.mu.Lock()
	generation := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for generation == b.generation {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// runWorkers runs body once per worker index on its own goroutine and joins
// them; the first error wins.
func runWorkers(workerCount int, body func(workerIndex int) error) error {
	var group errgroup.Group
	for w := 0; w < workerCount; w++ {
		worker := w
		group.Go(func() error {
			return body(worker)
		})
	}
	return group.Wait()
}
