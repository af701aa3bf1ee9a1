package main

import (
	"context"

	"talenta-backend/internal/infrastructure/queue"
	"talenta-backend/internal/shared"
	"talenta-backend/pkg/container"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type asynqServer struct {
	*asynq.Server
}

// queuePriorities weights the merge queue over maintenance.
func queuePriorities(mergeQueue string) map[string]int {
	if mergeQueue == "" {
		mergeQueue = shared.QueueMedia
	}
	return map[string]int{
		mergeQueue:              6,
		shared.QueueMaintenance: 1,
	}
}

func setupAsynqServer(c *container.Container, opts runOptions, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		queue.RedisOpt(c.Config.Redis),
		asynq.Config{
			Queues:          queuePriorities(c.Config.Queue.MergeQueue),
			Concurrency:     opts.concurrency,
			ShutdownTimeout: opts.shutdownWait,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("Task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", opts.concurrency).Msg("Worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Info().Msg("Worker draining in-flight tasks")
	s.Server.Shutdown()
	log.Info().Msg("Worker stopped")
}
