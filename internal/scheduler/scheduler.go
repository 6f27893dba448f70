// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of periodic work. ctx is cancelled once the job timeout
// elapses.
type Job func(ctx context.Context) error

type Scheduler struct {
	logger     zerolog.Logger
	cron       *cron.Cron
	jobTimeout time.Duration
}

// New returns a scheduler whose specs accept an optional seconds field
// and descriptors such as "@every 1h".
func New(logger zerolog.Logger, loc *time.Location, jobTimeout time.Duration) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cron.NewParser(
				cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
			)),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		jobTimeout: jobTimeout,
	}
}

func (s *Scheduler) AddJob(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.logger.Info().
		Str("job", name).
		Str("spec", spec).
		Msg("scheduled job")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for the running ones to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("job", name).
			Dur("elapsed", time.Since(start)).
			Msg("job failed")
		return
	}

	s.logger.Debug().
		Str("job", name).
		Dur("elapsed", time.Since(start)).
		Msg("job finished")
}
