package orchestrator

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Queue runs submitted work in its own goroutine. With a positive limit at
// most that many run at once and the rest wait their turn.
type Queue struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewQueue creates a Queue. limit <= 0 means unlimited.
func NewQueue(limit int) *Queue {
	q := &Queue{}
	if limit > 0 {
		q.sem = semaphore.NewWeighted(int64(limit))
	}
	return q
}

// Submit schedules work and returns immediately. If ctx is cancelled while the
// work is still waiting for a slot, work is called anyway with the cancelled
// ctx so it can record that.
func (q *Queue) Submit(ctx context.Context, work func(ctx context.Context)) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		if q.sem != nil {
			if err := q.sem.Acquire(ctx, 1); err != nil {
				work(ctx)
				return
			}
			defer q.sem.Release(1)
		}
		work(ctx)
	}()
}

// Wait blocks until all submitted work has returned
func (q *Queue) Wait() {
	q.wg.Wait()
}
