package queue

import (
	"time"

	"school-library-backend/internal/config"
	"school-library-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobsConfig
}

func NewScheduler(redis asynq.RedisClientOpt, jobConfig config.JobsConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterLibraryJobs registers every periodic job
func (s *Scheduler) RegisterLibraryJobs() error {
	if err := s.registerOverdueScanJob(); err != nil {
		return err
	}
	if err := s.registerLedgerAuditJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// JOB 1: Overdue scan (default daily at 08:00 UTC)
// ================================================
func (s *Scheduler) registerOverdueScanJob() error {
	task, err := NewOverdueScanTask()
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.OverdueScanCron,
		task,
		asynq.Queue(QueueReports),
		asynq.MaxRetry(2),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register OverdueScan job", err)
		return err
	}

	logger.Info("Registered OverdueScan", map[string]interface{}{"cron": s.jobConfig.OverdueScanCron})
	return nil
}

// ================================================
// JOB 2: Ledger audit (default daily at 02:30 UTC)
// ================================================
// Audit only; repairs are a manual decision.
func (s *Scheduler) registerLedgerAuditJob() error {
	task, err := NewLedgerAuditTask(false)
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.LedgerAuditCron,
		task,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register LedgerAudit job", err)
		return err
	}

	logger.Info("Registered LedgerAudit", map[string]interface{}{"cron": s.jobConfig.LedgerAuditCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
