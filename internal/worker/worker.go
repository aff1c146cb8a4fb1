package worker

import (
	"context"
	"sync"
)

type ProcessFunc[T any] func(ctx context.Context, job T) error

// ErrorFunc is called with every job whose ProcessFunc returned an error.
type ErrorFunc[T any] func(job T, err error)

type Pool[T any] struct {
	numWorkers int
	jobs       chan T
	processor  ProcessFunc[T]
	onError    ErrorFunc[T]
	wg         sync.WaitGroup
}

func NewPool[T any](numWorkers int, bufferSize int, processor ProcessFunc[T]) *Pool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool[T]{
		numWorkers: numWorkers,
		jobs:       make(chan T, bufferSize),
		processor:  processor,
	}
}

// OnError sets the error hook. Call before Start.
func (p *Pool[T]) OnError(fn ErrorFunc[T]) {
	p.onError = fn
}

func (p *Pool[T]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool[T]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil && p.onError != nil {
				p.onError(job, err)
			}
		}
	}
}

// Submit blocks until the job is queued.
func (p *Pool[T]) Submit(job T) {
	p.jobs <- job
}

// TrySubmit queues the job only if the buffer has room.
func (p *Pool[T]) TrySubmit(job T) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Pending is the number of queued jobs not yet picked up by a worker.
func (p *Pool[T]) Pending() int {
	return len(p.jobs)
}

// Stop closes the queue and waits for the workers. Submitting after Stop panics.
func (p *Pool[T]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
