// Package metrics provides build metrics for nortreport.
//
// Components receive a Recorder through dependency injection. NoopRecorder is the
// default; PrometheusRecorder registers collectors on a caller-supplied registry.
// Because a build is a short-lived process there is no scrape endpoint: WriteTextfile
// dumps the registry in text exposition format for the node_exporter textfile
// collector.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	svc := build.NewService(build.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile("/var/lib/node_exporter/nortreport.prom", reg)
package metrics
