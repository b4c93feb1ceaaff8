package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewIntervalScheduler(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) { calls.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 runs, got %d", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestIntervalSchedulerStop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewIntervalScheduler(10 * time.Millisecond)

	if err := s.Start(context.Background(), func(time.Time) { calls.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Fatalf("expected no further runs after Stop, got %d -> %d", settled, calls.Load())
	}
}

func TestIntervalSchedulerNilJob(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Millisecond)
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start with nil job returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestIntervalSchedulerContextCancel(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewIntervalScheduler(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, func(time.Time) { calls.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	cancel()

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Fatalf("expected runs to stop after context cancel, got %d -> %d", settled, calls.Load())
	}
}
