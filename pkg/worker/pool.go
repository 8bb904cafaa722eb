package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

var ErrPoolStopped = errors.New("worker pool stopped")

type Job func() error

// Pool runs jobs on a fixed set of goroutines. It is used to keep blocking
// work such as media extraction off the update goroutines.
type Pool struct {
	maxWorkers int
	jobs       chan Job
	wg         sync.WaitGroup
	stopped    bool
	mu         sync.RWMutex
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	p := &Pool{
		maxWorkers: maxWorkers,
		jobs:       make(chan Job, maxWorkers*2),
	}
	p.start()
	return p
}

func (p *Pool) Size() int {
	return p.maxWorkers
}

func (p *Pool) start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := job(); err != nil {
			logger.Debug("Job failed", "worker", id, "error", err)
		}
	}
}

// Submit queues job and blocks while the queue is full. It reports false
// once the pool is stopped.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return false
	}

	p.jobs <- job
	return true
}

// Stop refuses new jobs and waits for queued ones to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		close(p.jobs)
		p.stopped = true
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Do runs fn on a pool worker and waits for its result. When ctx ends first
// Do returns ctx.Err(); fn keeps running to completion on the worker.
func Do[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	return DoOrDiscard(ctx, p, fn, nil)
}

// DoOrDiscard is Do for results that own resources. When ctx ends before the
// result is taken, discard is called with any successful value fn still
// produces.
func DoOrDiscard[T any](ctx context.Context, p *Pool, fn func() (T, error), discard func(T)) (T, error) {
	type result struct {
		val T
		err error
	}
	var zero T

	done := make(chan result, 1)
	ok := p.Submit(func() error {
		v, err := fn()
		done <- result{v, err}
		return err
	})
	if !ok {
		return zero, ErrPoolStopped
	}

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		if discard != nil {
			go func() {
				if r := <-done; r.err == nil {
					discard(r.val)
				}
			}()
		}
		return zero, ctx.Err()
	}
}
