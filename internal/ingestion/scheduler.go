package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guttosm/tickerrank/internal/logger"
)

// Job is one scheduled ingestion run.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a six-field cron spec (seconds first). A run still
// in progress when the next tick fires makes that tick a no-op.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

type cronLogger struct{}

func (cronLogger) Printf(format string, args ...interface{}) {
	logger.L().Debug().Str("component", "cron").Msg(fmt.Sprintf(format, args...))
}

// NewScheduler validates spec and registers job. ctx is handed to every run.
func NewScheduler(ctx context.Context, spec string, job Job) (*Scheduler, error) {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(cronLogger{}))),
	)
	_, err := c.AddFunc(spec, func() {
		start := time.Now()
		logger.L().Info().Str("schedule", spec).Msg("scheduled ingestion started")
		if err := job(ctx); err != nil {
			logger.L().Error().Err(err).Dur("elapsed", time.Since(start)).Msg("scheduled ingestion failed")
			return
		}
		logger.L().Info().Dur("elapsed", time.Since(start)).Msg("scheduled ingestion done")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ingest schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

// Next returns the next activation time after the scheduler has started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	logger.L().Info().Str("schedule", s.spec).Time("next", s.Next()).Msg("scheduler started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.L().Info().Msg("scheduler stopped")
}
