// Package worker provides the bounded-concurrency primitives shared by the
// scraping and batch stages.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) Result

// Execute calls f(ctx)
func (f JobFunc) Execute(ctx context.Context) Result { return f(ctx) }

type slot struct {
	index int
	job   Job
}

type slotResult struct {
	index  int
	result Result
}

// Pool runs submitted jobs on a fixed number of workers. Wait returns results
// in submission order; a job skipped because the pool was cancelled yields a
// nil entry.
type Pool struct {
	workers   int
	jobQueue  chan slot
	results   chan slotResult
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.Mutex
	submitted int
	collected map[int]Result
	drained   chan struct{}
}

// NewPool creates a pool whose jobs run under a child of ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:   workers,
		jobQueue:  make(chan slot, workers*2),
		results:   make(chan slotResult, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		collected: make(map[int]Result),
		drained:   make(chan struct{}),
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

// collect drains results as they arrive so workers never block on a full
// results channel while Submit is still feeding the queue.
func (p *Pool) collect() {
	defer close(p.drained)
	for r := range p.results {
		p.mu.Lock()
		p.collected[r.index] = r.result
		p.mu.Unlock()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for s := range p.jobQueue {
		if p.ctx.Err() != nil {
			continue
		}
		r := s.job.Execute(p.ctx)
		p.results <- slotResult{index: s.index, result: r}
	}
}

// Submit queues a job and returns its submission index. It blocks while the
// queue is full. Submit must not be called after Wait.
func (p *Pool) Submit(job Job) int {
	p.mu.Lock()
	idx := p.submitted
	p.submitted++
	p.mu.Unlock()

	p.jobQueue <- slot{index: idx, job: job}
	return idx
}

// Wait closes the queue, waits for every queued job and returns the results
// ordered by submission index.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	p.wg.Wait()
	p.closeResults()
	<-p.drained
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Result, p.submitted)
	for idx, r := range p.collected {
		out[idx] = r
	}
	return out
}

// Shutdown cancels running jobs; queued jobs are skipped. Call Wait afterwards
// to reclaim the workers.
func (p *Pool) Shutdown() {
	p.cancel()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
