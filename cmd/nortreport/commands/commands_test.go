package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDefaultsToBuild(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-o", "site"})
	require.NoError(t, err)
	assert.Equal(t, "build", ctx.Command())
	assert.Equal(t, "links.yml", filepath.Base(cli.Config))
	assert.Equal(t, "site", filepath.Base(cli.Build.Output))
}

func TestParseWatchFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-c", "my.yml", "watch", "--every", "15m", "--debounce", "1s"})
	require.NoError(t, err)
	assert.Equal(t, "watch", ctx.Command())
	assert.Equal(t, 15*time.Minute, cli.Watch.Every)
	assert.Equal(t, time.Second, cli.Watch.Debounce)
	assert.Equal(t, "my.yml", filepath.Base(cli.Config))
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "links.yml")
	out := filepath.Join(dir, "public")
	metricsFile := filepath.Join(dir, "metrics", "nortreport.prom")

	var stdout bytes.Buffer
	require.NoError(t, RunInit(&stdout, cfg, false))
	assert.Contains(t, stdout.String(), cfg)
	require.Error(t, RunInit(&stdout, cfg, false), "init must not clobber without --force")
	require.NoError(t, RunInit(&stdout, cfg, true))

	stdout.Reset()
	res, err := RunBuild(context.Background(), &stdout, quietLogger(), cfg, out, NewMetricsSink(metricsFile))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Links)
	assert.Contains(t, stdout.String(), "built 3 links")
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "rss.xml"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `nortreport_build_outcomes_total{outcome="success"} 1`)
}

func TestBuildMissingConfigMapsToConfigExitCode(t *testing.T) {
	dir := t.TempDir()
	_, err := RunBuild(context.Background(), io.Discard, quietLogger(), filepath.Join(dir, "nope.yml"), filepath.Join(dir, "public"), nil)
	require.Error(t, err)
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, quietLogger()).ExitCodeFor(err))
	assert.NoDirExists(t, filepath.Join(dir, "public"))
}

func TestMetricsSinkAccumulatesAcrossBuilds(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "links.yml")
	metricsFile := filepath.Join(dir, "nortreport.prom")
	require.NoError(t, RunInit(io.Discard, cfg, false))

	sink := NewMetricsSink(metricsFile)
	for range 3 {
		_, err := RunBuild(context.Background(), io.Discard, quietLogger(), cfg, filepath.Join(dir, "public"), sink)
		require.NoError(t, err)
	}
	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `nortreport_build_outcomes_total{outcome="success"} 3`)
	assert.Contains(t, string(prom), `nortreport_artifact_writes_total{artifact="robots",result="unchanged"} 2`)
}

func TestNilMetricsSinkIsDisabled(t *testing.T) {
	assert.Nil(t, NewMetricsSink(""))
	var sink *MetricsSink
	sink.flush(quietLogger())
}

func TestWatchMetricsCountEveryRebuild(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "links.yml")
	metricsFile := filepath.Join(dir, "nortreport.prom")
	require.NoError(t, RunInit(io.Discard, cfg, false))

	w := &WatchCmd{Output: filepath.Join(dir, "public"), MetricsFile: metricsFile, Debounce: 20 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, &Global{Logger: quietLogger()}, cfg, io.Discard) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	outcomes := func(n string) func() bool {
		return func() bool {
			data, err := os.ReadFile(metricsFile)
			return err == nil && strings.Contains(string(data), `nortreport_build_outcomes_total{outcome="success"} `+n)
		}
	}
	require.Eventually(t, outcomes("1"), 3*time.Second, 20*time.Millisecond)

	doc, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, append(doc, []byte("# edited\n")...), 0o644))
	require.Eventually(t, outcomes("2"), 3*time.Second, 20*time.Millisecond)
}

func TestWatchBuildsUntilCanceled(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "links.yml")
	require.NoError(t, RunInit(io.Discard, cfg, false))

	w := &WatchCmd{Output: filepath.Join(dir, "public"), Debounce: 20 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, &Global{Logger: quietLogger()}, cfg, io.Discard) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "public", "index.html"))
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
