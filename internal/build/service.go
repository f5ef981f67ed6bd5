package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/nortreport/internal/links"
	"git.home.luguber.info/inful/nortreport/internal/publish"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes load → normalize → front → archive → feed → discovery.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// ConfigPath is the links document.
	ConfigPath string

	// OutputDir is the public output directory.
	OutputDir string
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status BuildStatus

	// BuildID correlates log lines of one run.
	BuildID string

	// BuildTime is the single clock reading every stage used.
	BuildTime time.Time

	// Links is the number of entries that survived normalization.
	Links int

	// Normalization holds drop and repair counts.
	Normalization links.Report

	// Artifacts maps output-relative paths to what the writer did.
	Artifacts map[string]publish.Result

	// ArchivePath is the snapshot written this run.
	ArchivePath string

	Written   int
	Unchanged int

	Duration time.Duration
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
