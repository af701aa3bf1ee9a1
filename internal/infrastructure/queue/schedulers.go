package queue

import (
	"encoding/json"
	"time"

	"talenta-backend/internal/shared"
	"talenta-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// ReconcileSchedule runs the orphaned-object report daily at 4 AM UTC.
const ReconcileSchedule = "0 4 * * *"

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redis asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerReconcileOrphansJob()
}

// ================================================
// Reconcile orphaned objects (daily at 4 AM)
// ================================================
func (s *Scheduler) registerReconcileOrphansJob() error {
	payload, err := json.Marshal(shared.ReconcileOrphansPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcileOrphans, payload)

	_, err = s.scheduler.Register(
		ReconcileSchedule,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileOrphans job", err)
		return err
	}

	logger.Info("Registered ReconcileOrphans", map[string]interface{}{"cron": ReconcileSchedule})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
