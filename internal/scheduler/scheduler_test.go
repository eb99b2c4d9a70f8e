package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestScheduler_RunsIntervalJobImmediately(t *testing.T) {
	s := New()
	done := make(chan struct{}, 1)

	s.NewIntervalJob("tick", func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}, time.Hour, true)

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("interval job with immediate start never ran")
	}
}

func TestScheduler_RecoversFromJobPanic(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)

	s.NewIntervalJob("boom", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		panic("boom")
	}, time.Hour, true)

	s.Start()
	defer s.Stop()

	// a panicking job must be recovered inside the task wrapper; an
	// unrecovered panic in the job goroutine would kill the test binary
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("panicking job never ran")
	}
	time.Sleep(50 * time.Millisecond)
}
