package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ai-study-guide/internal/infra/metrics"
)

// Counter reports the current size of one store.
type Counter func(ctx context.Context) (int, error)

// StatsWorker periodically copies store sizes into the store_entries gauge.
type StatsWorker struct {
	interval time.Duration
	counters map[string]Counter
	log      *zerolog.Logger
}

func NewStatsWorker(interval time.Duration, counters map[string]Counter, logger *zerolog.Logger) *StatsWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "StatsWorker").Logger()
	return &StatsWorker{interval: interval, counters: counters, log: &l}
}

// Run blocks until ctx is done. Sizes are collected once immediately.
func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Collect(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.Collect(ctx)
		}
	}
}

func (w *StatsWorker) Collect(ctx context.Context) {
	for name, count := range w.counters {
		n, err := count(ctx)
		if err != nil {
			w.log.Error().Err(err).Str("store", name).Msg("stats collection failed")
			continue
		}
		metrics.SetStoreEntries(name, n)
	}
}
