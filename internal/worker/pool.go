// worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when submitting to a closed pool.
var ErrClosed = errors.New("worker: pool closed")

type Job func()

// Pool runs jobs on a fixed number of goroutines. It is shared by all
// requests so that the number of concurrent outbound calls stays bounded.
type Pool struct {
	jobs chan Job
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewPool(workerCount int, bufferSize int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		jobs: make(chan Job, bufferSize),
		done: make(chan struct{}),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.done:
			return
		}
	}
}

// Submit queues fn, blocking until there is room, the context ends, or the
// pool is closed.
func (p *Pool) Submit(ctx context.Context, fn Job) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case p.jobs <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrClosed
	}
}

// Close stops the workers once they finish their current job. Jobs still
// queued are dropped; Map callers waiting on them observe ErrClosed.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
}

// Map runs fn for every item on the pool and returns the outputs in input
// order. The first error cancels the remaining items and is returned.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		i, item := i, item
		err := p.Submit(ctx, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			r, err := fn(ctx, item)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			out[i] = r
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			cancel()
			break
		}
	}

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-p.done:
		return nil, ErrClosed
	}

	return out, firstError(errs)
}

// firstError prefers a real failure over the context.Canceled errors it
// caused in sibling jobs.
func firstError(errs []error) error {
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return err
	}
	return canceled
}
