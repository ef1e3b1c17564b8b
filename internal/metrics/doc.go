// Package metrics records build and stage metrics for simpledocs.
//
// Components depend on the Recorder interface. NoopRecorder is the default so
// callers never need nil checks; PrometheusRecorder collects into its own
// registry and can export a node_exporter textfile after each build:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	builder := site.NewBuilder(cfg, site.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("build.prom")
package metrics
