package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("front", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("front", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncArtifactWrite("index", WriteWritten)
	pr.IncArtifactWrite("index", WriteUnchanged)
	pr.IncArtifactWrite("index", WriteUnchanged)
	pr.SetLaneLinks("top", 4)
	pr.AddLinksDropped("missing_url", 2)
	pr.AddLinksDropped("missing_title", 0)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.artifactWrites.WithLabelValues("index", "unchanged")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.laneLinks.WithLabelValues("top")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.linksDropped.WithLabelValues("missing_url")), 0)
	assert.Positive(t, testutil.ToFloat64(pr.lastSuccess))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncBuildOutcome(BuildOutcomeFailed)
	pr.SetLaneLinks("top", 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	path := filepath.Join(t.TempDir(), "textfile", "nortreport.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `nortreport_build_outcomes_total{outcome="success"} 1`))
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.ObserveStageDuration("load", time.Millisecond)
	r.IncStageResult("load", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	assert.Equal(t, 1, r.stageDurations["load"])
	assert.Equal(t, 1, r.stageResults["load"][ResultSuccess])
	assert.Equal(t, 1, r.buildOutcomes[BuildOutcomeSuccess])
}
