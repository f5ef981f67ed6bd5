package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
)

// Scheduler wraps a gocron scheduler for periodic rebuilds.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.RuntimeError("failed to create scheduler").WithCause(err).Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task at a fixed interval and returns the job ID.
func (s *Scheduler) ScheduleEvery(name string, every time.Duration, task func()) (string, error) {
	if every <= 0 {
		return "", errors.ValidationError("rebuild interval must be > 0").
			WithContext("interval", every.String()).Build()
	}
	return s.schedule(name, gocron.DurationJob(every), task)
}

// ScheduleCron runs task on a five-field crontab expression and returns the job ID.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	return s.schedule(name, gocron.CronJob(expr, false), task)
}

func (s *Scheduler) schedule(name string, def gocron.JobDefinition, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func() {
			s.logger.Debug("Scheduled job fired", logfields.Reason(name))
			task()
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("invalid schedule for %s", name)).Build()
	}
	return job.ID().String(), nil
}
