package build

import (
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/nortreport/internal/config"
	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/links"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
	"git.home.luguber.info/inful/nortreport/internal/metrics"
	"git.home.luguber.info/inful/nortreport/internal/publish"
)

// StageName identifies a pipeline stage in logs and metrics.
type StageName string

const (
	StageLoad      StageName = "load"
	StageNormalize StageName = "normalize"
	StageFront     StageName = "front"
	StageArchive   StageName = "archive"
	StageFeed      StageName = "feed"
	StageDiscovery StageName = "discovery"
)

type stageDef struct {
	name StageName
	fn   func(ctx context.Context, st *buildState) error
}

// buildState carries values between stages of one run.
type buildState struct {
	req       BuildRequest
	now       time.Time
	doc       *config.Document
	entries   []links.Entry
	report    links.Report
	generator *Generator
	writer    *publish.Writer
	columns   template.HTML
	archive   string
}

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	recorder metrics.Recorder
	clock    func() time.Time
	logger   *slog.Logger
	newID    func() string
}

// NewBuildService creates a DefaultBuildService with a noop recorder and the wall clock.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		recorder: metrics.NoopRecorder{},
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithClock overrides the build clock. Read once per Run.
func (s *DefaultBuildService) WithClock(clock func() time.Time) *DefaultBuildService {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// WithLogger sets the logger; slog.Default is used otherwise.
func (s *DefaultBuildService) WithLogger(l *slog.Logger) *DefaultBuildService {
	s.logger = l
	return s
}

func (s *DefaultBuildService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Run executes the full pipeline. The first failing stage aborts the build; artifacts
// already written by earlier stages stay in place.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{
		Status:    BuildStatusFailed,
		BuildID:   s.newID(),
		BuildTime: s.clock(),
	}
	logger := s.log().With(logfields.BuildID(result.BuildID))
	logger.Info("Starting site build",
		slog.String("config", req.ConfigPath),
		slog.String("output", req.OutputDir))

	st := &buildState{req: req, now: result.BuildTime, writer: publish.NewWriter(req.OutputDir)}
	err := s.runStages(ctx, st, logger, s.stages(logger))

	result.Duration = time.Since(start)
	result.Links = len(st.entries)
	result.Normalization = st.report
	result.ArchivePath = st.archive
	if st.generator != nil {
		result.Artifacts = st.generator.Artifacts()
	}
	stats := st.writer.Stats()
	result.Written, result.Unchanged = stats.Written, stats.Unchanged
	s.recorder.ObserveBuildDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = BuildStatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		logger.Info("Site build completed",
			slog.Int("links", result.Links),
			slog.Int("written", result.Written),
			slog.Int("unchanged", result.Unchanged),
			logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	case ctx.Err() != nil:
		result.Status = BuildStatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	default:
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		logger.Error("Site build failed",
			slog.String("category", string(errors.GetCategory(err))),
			logfields.Error(err))
	}
	return result, err
}

func (s *DefaultBuildService) stages(logger *slog.Logger) []stageDef {
	return []stageDef{
		{StageLoad, func(_ context.Context, st *buildState) error {
			doc, err := config.Load(st.req.ConfigPath)
			if err != nil {
				return err
			}
			for _, w := range doc.Warnings {
				logger.Warn("Site setting ignored", logfields.Reason(w))
			}
			st.doc = doc
			g, err := NewGenerator(doc.Site, st.writer, s.recorder, logger)
			if err != nil {
				return err
			}
			st.generator = g
			return nil
		}},
		{StageNormalize, func(_ context.Context, st *buildState) error {
			st.entries, st.report = links.Normalize(st.doc.Links, st.now)
			s.reportNormalization(logger, st.entries, st.report)
			return nil
		}},
		{StageFront, func(_ context.Context, st *buildState) error {
			cols, err := st.generator.BuildFront(st.entries, st.now)
			st.columns = cols
			return err
		}},
		{StageArchive, func(_ context.Context, st *buildState) error {
			path, err := st.generator.BuildArchive(st.columns, st.now)
			st.archive = path
			return err
		}},
		{StageFeed, func(_ context.Context, st *buildState) error {
			return st.generator.BuildRSS(st.entries, st.now)
		}},
		{StageDiscovery, func(_ context.Context, st *buildState) error {
			return st.generator.BuildDiscovery(st.archive)
		}},
	}
}

// runStages executes stages in order, recording timing and stopping on the first error.
func (s *DefaultBuildService) runStages(ctx context.Context, st *buildState, logger *slog.Logger, stages []stageDef) error {
	for _, def := range stages {
		if err := ctx.Err(); err != nil {
			s.recorder.IncStageResult(string(def.name), metrics.ResultCanceled)
			return errors.RuntimeError("build canceled").WithCause(err).
				WithContext("stage", string(def.name)).Build()
		}
		t0 := time.Now()
		err := def.fn(ctx, st)
		dur := time.Since(t0)
		s.recorder.ObserveStageDuration(string(def.name), dur)
		if err != nil {
			s.recorder.IncStageResult(string(def.name), metrics.ResultFatal)
			logger.Error("Stage failed", logfields.Stage(string(def.name)), logfields.Error(err))
			return err
		}
		s.recorder.IncStageResult(string(def.name), metrics.ResultSuccess)
		logger.Debug("Stage complete", logfields.Stage(string(def.name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}

// reportNormalization surfaces silent drops in logs and metrics; output is unaffected.
func (s *DefaultBuildService) reportNormalization(logger *slog.Logger, entries []links.Entry, r links.Report) {
	s.recorder.AddLinksDropped("missing_title", r.MissingTitle)
	s.recorder.AddLinksDropped("missing_url", r.MissingURL)
	s.recorder.AddLinksDropped("unknown_lane", r.UnknownLane)

	logger.Info("Links normalized",
		slog.Int("input", r.Input),
		slog.Int("kept", r.Kept),
		slog.Int("dropped", r.Dropped()))
	if r.Dropped() > 0 {
		logger.Warn("Link entries dropped for missing title or url",
			slog.Int("missing_title", r.MissingTitle),
			slog.Int("missing_url", r.MissingURL))
	}
	for _, e := range entries {
		if !e.Lane.Known() {
			logger.Warn("Link entry hidden: lane is not rendered",
				logfields.Lane(string(e.Lane)), logfields.LinkID(e.ID))
		}
	}
	if r.TimestampFallbacks > 0 {
		logger.Info("Missing or unparseable added_at replaced with build time", logfields.Count(r.TimestampFallbacks))
	}
	if r.PriorityCoerced > 0 {
		logger.Warn("Non-numeric priority treated as 0", logfields.Count(r.PriorityCoerced))
	}
}

var _ BuildService = (*DefaultBuildService)(nil)
