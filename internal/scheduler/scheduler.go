package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named unit of background work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish, so no job acts
// on state that is being torn down.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// AddJob registers a job. Schedules use the cron spec format, including
// descriptors like "@every 60s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.logger.Error("Job failed", zap.String("job", job.Name()), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("Job registered", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}
