package main

import (
	"school-library-backend/internal/config"
	"school-library-backend/internal/infrastructure/queue"

	"github.com/rs/zerolog/log"
)

// asynqScheduler wraps queue.Scheduler with logging around its lifecycle
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates the scheduler, registers cron jobs and starts it
func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(queue.RedisOpt(cfg.Redis), cfg.Jobs)

	if err := scheduler.RegisterLibraryJobs(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register jobs")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
