package ingestion

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	cases := []string{"", "not a cron", "0 30 22 * *"}
	for _, spec := range cases {
		if _, err := NewScheduler(context.Background(), spec, func(context.Context) error { return nil }); err == nil {
			t.Fatalf("spec %q should be rejected", spec)
		}
	}
}

func TestScheduler_RunsJob(t *testing.T) {
	var runs int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := NewScheduler(ctx, "* * * * * *", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(3 * time.Second)
	for atomic.LoadInt32(&runs) == 0 {
		select {
		case <-deadline:
			t.Fatalf("job never ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop")
	}
}
