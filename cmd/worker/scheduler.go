package main

import (
	"fmt"

	"talenta-backend/internal/infrastructure/queue"
	"talenta-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) (*asynqScheduler, error) {
	scheduler := queue.NewScheduler(queue.RedisOpt(c.Config.Redis))

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		return nil, fmt.Errorf("register scheduled jobs: %w", err)
	}

	go func() {
		log.Info().Msg("Scheduler starting")
		if err := scheduler.Start(); err != nil {
			log.Error().Err(err).Msg("Scheduler stopped")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}, nil
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}
