//go:build !integration

package sched

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatsWorker_CollectsUntilCancelled(t *testing.T) {
	t.Parallel()
	calls := make(chan string, 16)
	counters := map[string]Counter{
		"roadmaps": func(context.Context) (int, error) { calls <- "roadmaps"; return 3, nil },
		"broken":   func(context.Context) (int, error) { calls <- "broken"; return 0, errors.New("down") },
	}
	w := NewStatsWorker(10*time.Millisecond, counters, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	seen := map[string]int{}
	deadline := time.After(2 * time.Second)
	for seen["roadmaps"] < 2 || seen["broken"] < 2 {
		select {
		case name := <-calls:
			seen[name]++
		case <-deadline:
			t.Fatalf("counters not polled repeatedly: %v", seen)
		}
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
