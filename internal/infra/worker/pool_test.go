//go:build !integration

package worker_test

import (
	"context"
	"sync/atomic"
	"testing"

	"consulta-vehicular/internal/infra/worker"

	"github.com/rs/zerolog"
)

func TestPool_RunAll(t *testing.T) {
	// --- Arrange ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := worker.NewPool(2, 4, zerolog.Nop())
	pool.Start(ctx)
	defer pool.Stop()

	var done int32
	tasks := make([]worker.Job, 8)
	for i := range tasks {
		tasks[i] = func(context.Context) { atomic.AddInt32(&done, 1) }
	}

	// --- Act ---
	pool.RunAll(ctx, tasks)

	// --- Assert ---
	if got := atomic.LoadInt32(&done); got != 8 {
		t.Fatalf("expected all 8 tasks to run, got %d", got)
	}
}

func TestPool_TrySubmit(t *testing.T) {
	// --- Arrange ---
	// No workers started: the queue alone decides acceptance, so a full
	// queue must reject instead of blocking the caller.
	pool := worker.NewPool(1, 1, zerolog.Nop())

	// --- Act / Assert ---
	if !pool.TrySubmit(func(context.Context) {}) {
		t.Fatal("expected the first enqueue to fit the queue")
	}
	if pool.TrySubmit(func(context.Context) {}) {
		t.Fatal("expected rejection once the queue is full")
	}
}

func TestPool_SubmitHonoursCancellation(t *testing.T) {
	// --- Arrange ---
	pool := worker.NewPool(1, 1, zerolog.Nop())
	if !pool.TrySubmit(func(context.Context) {}) {
		t.Fatal("setup enqueue failed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	ok := pool.Submit(ctx, func(context.Context) {})

	// --- Assert ---
	if ok {
		t.Fatal("expected Submit to report failure on a cancelled context")
	}
}
