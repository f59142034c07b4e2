// Package worker runs independent claim evaluations on a bounded pool of
// goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is one unit of work, typically a single claim evaluation
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job hands back; a failed job still produces one
type Result interface {
	GetError() error
}

// queueFactor sizes the job and result buffers per worker
const queueFactor = 4

// Pool runs jobs on a fixed number of goroutines.
// Jobs must not share mutable state; results arrive in completion order.
type Pool struct {
	workers   int
	pending   chan Job
	finished  chan Result
	completed atomic.Int64

	ctx    context.Context
	stop   context.CancelFunc
	active sync.WaitGroup

	closePending  sync.Once
	closeFinished sync.Once
}

// NewPool creates a pool of workers goroutines (at least one).
// Cancelling parent stops the workers like Shutdown.
func NewPool(parent context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	ctx, stop := context.WithCancel(parent)
	return &Pool{
		workers:  workers,
		pending:  make(chan Job, workers*queueFactor),
		finished: make(chan Result, workers*queueFactor),
		ctx:      ctx,
		stop:     stop,
	}
}

// Workers returns the number of worker goroutines
func (p *Pool) Workers() int { return p.workers }

// Completed returns how many jobs have produced a result so far
func (p *Pool) Completed() int { return int(p.completed.Load()) }

// Start launches the workers
func (p *Pool) Start() {
	p.active.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.active.Done()

	for {
		var job Job
		select {
		case <-p.ctx.Done():
			return
		case next, ok := <-p.pending:
			if !ok {
				return
			}
			job = next
		}

		res := job.Execute(p.ctx)
		select {
		case p.finished <- res:
			p.completed.Add(1)
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit queues a job. It reports false when the pool was shut down before
// the job could be queued. Submit must not be called after Wait or Process.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.pending <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Wait closes the queue and returns the results of every submitted job.
// Only as many jobs as the buffers hold may be submitted before Wait;
// use Process for larger inputs.
func (p *Pool) Wait() []Result {
	p.endQueue()
	return p.drain()
}

// Process feeds jobs to a started pool while collecting results, so any
// number of jobs can be run. Jobs not yet queued at shutdown are skipped.
func (p *Pool) Process(jobs []Job) []Result {
	go func() {
		defer p.endQueue()
		for _, job := range jobs {
			if !p.Submit(job) {
				return
			}
		}
	}()
	return p.drain()
}

// Shutdown stops the workers without waiting for queued jobs
func (p *Pool) Shutdown() {
	p.stop()
	p.active.Wait()
	p.endResults()
}

// drain collects results until every worker has exited
func (p *Pool) drain() []Result {
	go func() {
		p.active.Wait()
		p.endResults()
		p.stop()
	}()

	results := make([]Result, 0, p.workers)
	for res := range p.finished {
		results = append(results, res)
	}
	return results
}

func (p *Pool) endQueue() {
	p.closePending.Do(func() { close(p.pending) })
}

func (p *Pool) endResults() {
	p.closeFinished.Do(func() { close(p.finished) })
}
