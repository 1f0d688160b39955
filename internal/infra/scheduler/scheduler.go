package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is one recurring maintenance job.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each registered task on its own ticker until stopped.
type Scheduler struct {
	tasks []Task
	log   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(log zerolog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks: tasks,
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for _, t := range s.tasks {
		if t.Interval <= 0 || t.Run == nil {
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
	s.log.Info().Int("tasks", len(s.tasks)).Msg("scheduler started")
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Run(ctx); err != nil {
				s.log.Warn().Err(err).Str("task", t.Name).Msg("task failed")
			}
		}
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}
