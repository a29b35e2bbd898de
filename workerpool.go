// workerpool.go - the bounded-concurrency reconstruction thread pool
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// threadPool executes submitted reconstruction jobs with no more than
// n concurrent in flight (spec.md §4.3's C3). Rather than pre-spawning
// a fixed set of worker goroutines that drain a channel, it spawns one
// goroutine per unit of work, tracked by a WaitGroup, and uses a
// weighted semaphore to cap concurrency — equivalent scheduling, no
// idle worker goroutines to manage between jobs.
type threadPool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// job is a (fn, arg) pair in the sense of spec.md §4.3; arg is folded
// into the closure instead of being passed positionally, which is the
// idiomatic Go shape for this.
type job func()

func newThreadPool(n int) *threadPool {
	return &threadPool{sem: semaphore.NewWeighted(int64(n))}
}

// submit runs fn in its own goroutine once a concurrency slot is
// available, blocking the caller only long enough to acquire the
// semaphore (spec.md §4.3: "No ordering guarantee between jobs").
func (p *threadPool) submit(fn job) {
	p.wg.Add(1)
	_ = p.sem.Acquire(context.Background(), 1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		fn()
	}()
}

// closePool waits for every in-flight job to finish (spec.md §4.7
// Close: "tear down the thread pool (which joins all workers)").
func (p *threadPool) closePool() {
	p.wg.Wait()
}
