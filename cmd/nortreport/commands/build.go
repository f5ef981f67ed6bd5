package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/nortreport/internal/build"
	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/logfields"
	"git.home.luguber.info/inful/nortreport/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory for the generated site" default:"public" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics for this run to a node_exporter textfile" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	_, err := RunBuild(ctx, os.Stdout, g.logger(), root.Config, b.Output, NewMetricsSink(b.MetricsFile))
	return err
}

// MetricsSink holds one registry for the life of the process so counters
// accumulate across rebuilds. A nil sink disables metrics.
type MetricsSink struct {
	path     string
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder
}

// NewMetricsSink returns nil when path is empty.
func NewMetricsSink(path string) *MetricsSink {
	if path == "" {
		return nil
	}
	reg := prom.NewRegistry()
	return &MetricsSink{path: path, registry: reg, recorder: metrics.NewPrometheusRecorder(reg)}
}

func (m *MetricsSink) flush(logger *slog.Logger) {
	if m == nil {
		return
	}
	if err := metrics.WriteTextfile(m.path, m.registry); err != nil {
		logger.Warn("Failed to write metrics textfile", logfields.Path(m.path), logfields.Error(err))
	}
}

// RunBuild generates the site once and prints a one-line summary to out.
func RunBuild(ctx context.Context, out io.Writer, logger *slog.Logger, configPath, outputDir string, sink *MetricsSink) (*build.BuildResult, error) {
	svc := build.NewBuildService().WithLogger(logger)
	if sink != nil {
		svc = svc.WithRecorder(sink.recorder)
	}

	res, err := svc.Run(ctx, build.BuildRequest{ConfigPath: configPath, OutputDir: outputDir})
	sink.flush(logger)
	if err != nil {
		return res, err
	}
	if res == nil || !res.Status.IsSuccess() {
		return res, errors.InternalError("build finished without success").Build()
	}

	_, _ = fmt.Fprintf(out, "built %d links into %s (%d written, %d unchanged)\n",
		res.Links, outputDir, res.Written, res.Unchanged)
	return res, nil
}
