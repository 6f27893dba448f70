package app

import (
	"context"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/scheduler"
)

var globalScheduler *scheduler.Scheduler

func MustStartScheduler() {
	cfg := config.Global().Scheduler
	sessions := globalServices.Sessions

	globalScheduler = scheduler.New(componentLogger("scheduler"), time.Local, cfg.JobTimeout)
	err := globalScheduler.AddJob("purge-expired-sessions", cfg.SessionPurgeSpec, func(ctx context.Context) error {
		purged, err := sessions.DeleteExpiredSessions(ctx, time.Now())
		if err != nil {
			return err
		}
		globalLogger.Debug().
			Int64("purged", purged).
			Msg("purged expired sessions")
		return nil
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule jobs")
		panic(err)
	}

	globalScheduler.Start()
	globalLogger.Info().Msg("started scheduler")
}

func StopScheduler() {
	if globalScheduler == nil {
		return
	}
	globalScheduler.Stop()
	globalLogger.Info().Msg("stopped scheduler")
}
