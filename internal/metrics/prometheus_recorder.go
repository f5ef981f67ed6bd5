package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "nortreport"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	artifactWrites *prom.CounterVec
	laneLinks      *prom.GaugeVec
	linksDropped   *prom.CounterVec
	lastSuccess    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		artifactWrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_writes_total",
			Help:      "Output artifacts by kind and whether bytes changed",
		}, []string{"artifact", "result"}),
		laneLinks: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "lane_links",
			Help:      "Links rendered per lane in the last build",
		}, []string{"lane"}),
		linksDropped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_dropped_total",
			Help:      "Link entries excluded or hidden during normalization",
		}, []string{"reason"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.artifactWrites, pr.laneLinks, pr.linksDropped, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
	if outcome == BuildOutcomeSuccess {
		p.lastSuccess.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) IncArtifactWrite(artifact string, result WriteLabel) {
	if p == nil {
		return
	}
	p.artifactWrites.WithLabelValues(artifact, string(result)).Inc()
}

func (p *PrometheusRecorder) SetLaneLinks(lane string, n int) {
	if p == nil {
		return
	}
	p.laneLinks.WithLabelValues(lane).Set(float64(n))
}

func (p *PrometheusRecorder) AddLinksDropped(reason string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.linksDropped.WithLabelValues(reason).Add(float64(n))
}
