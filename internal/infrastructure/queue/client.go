package queue

import (
	"talenta-backend/internal/config"

	"github.com/hibiken/asynq"
)

// RedisOpt is the asynq connection shared by the API client, the worker
// server and the scheduler.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
