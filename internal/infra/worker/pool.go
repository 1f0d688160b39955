package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Job is a unit of background work.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed set of goroutines.
type Pool struct {
	size int
	jobs chan Job
	wg   sync.WaitGroup
	log  zerolog.Logger

	mu      sync.Mutex
	started bool
}

func NewPool(size int, queue int, log zerolog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = size * 4
	}
	return &Pool{
		size: size,
		jobs: make(chan Job, queue),
		log:  log.With().Str("component", "worker-pool").Logger(),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					job(ctx)
				}
			}
		}(i)
	}
	p.log.Info().Int("workers", p.size).Msg("pool started")
}

// Submit enqueues a job. It blocks when the queue is full and reports false
// when the context is cancelled before the job is accepted.
func (p *Pool) Submit(ctx context.Context, job Job) bool {
	select {
	case <-ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// TrySubmit enqueues a job only when the queue has room. Best-effort work
// uses it so a saturated pool never blocks the caller.
func (p *Pool) TrySubmit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	p.log.Info().Msg("pool stopped")
}

// RunAll fans tasks out over the pool and waits for every one to return.
func (p *Pool) RunAll(ctx context.Context, tasks []Job) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		t := t
		wg.Add(1)
		ok := p.Submit(ctx, func(jctx context.Context) {
			defer wg.Done()
			t(jctx)
		})
		if !ok {
			wg.Done()
		}
	}
	wg.Wait()
}
