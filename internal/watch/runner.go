package watch

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
)

// DefaultDebounce is the quiet window after the last write before a rebuild starts.
const DefaultDebounce = 500 * time.Millisecond

// Trigger reasons passed to RebuildFunc.
const (
	ReasonStartup       = "startup"
	ReasonConfigChanged = "config_changed"
	ReasonScheduled     = "scheduled"
)

// RebuildFunc regenerates the site. An error is logged and the loop keeps running.
type RebuildFunc func(ctx context.Context, reason string) error

// Options configures a Runner.
type Options struct {
	ConfigPath string
	Debounce   time.Duration
	Every      time.Duration
	Cron       string
}

// Runner serializes rebuilds triggered by file changes and schedules.
type Runner struct {
	opts     Options
	rebuild  RebuildFunc
	logger   *slog.Logger
	triggers chan string
}

// NewRunner validates opts and returns an idle runner.
func NewRunner(opts Options, rebuild RebuildFunc, logger *slog.Logger) (*Runner, error) {
	if rebuild == nil {
		return nil, errors.ValidationError("rebuild function is required").Build()
	}
	if opts.ConfigPath == "" {
		return nil, errors.ValidationError("links document path is required").Build()
	}
	if opts.Every < 0 {
		return nil, errors.ValidationError("rebuild interval must not be negative").
			WithContext("interval", opts.Every.String()).Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, rebuild: rebuild, logger: logger, triggers: make(chan string, 1)}, nil
}

// Trigger requests a rebuild. It never blocks; a request made while one is
// already pending is merged into it.
func (r *Runner) Trigger(reason string) {
	select {
	case r.triggers <- reason:
	default:
		r.logger.Debug("Rebuild already pending", logfields.Reason(reason))
	}
}

// Run builds once, then rebuilds on every trigger until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	fw, err := NewFileWatcher(r.opts.ConfigPath, r.opts.Debounce, func() { r.Trigger(ReasonConfigChanged) }, r.logger)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}
	defer func() { _ = fw.Stop() }()

	if r.opts.Every > 0 || r.opts.Cron != "" {
		sched, err := r.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				r.logger.Error("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	r.Trigger(ReasonStartup)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Watch stopped")
			return nil
		case reason := <-r.triggers:
			r.logger.Info("Rebuilding site", logfields.Reason(reason))
			if err := r.rebuild(ctx, reason); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Error("Rebuild failed; waiting for next change", logfields.Reason(reason), logfields.Error(err))
			}
		}
	}
}

func (r *Runner) startScheduler() (*Scheduler, error) {
	sched, err := NewScheduler(r.logger)
	if err != nil {
		return nil, err
	}
	task := func() { r.Trigger(ReasonScheduled) }
	if r.opts.Every > 0 {
		if _, err := sched.ScheduleEvery("periodic-rebuild", r.opts.Every, task); err != nil {
			_ = sched.Stop()
			return nil, err
		}
	}
	if r.opts.Cron != "" {
		if _, err := sched.ScheduleCron("cron-rebuild", r.opts.Cron, task); err != nil {
			_ = sched.Stop()
			return nil, err
		}
	}
	sched.Start()
	return sched, nil
}
