// Package metrics defines the recorders the dispatch engine reports to.
// MetricsSink is mandatory; ReplenishmentRecorder, BatchRecorder,
// BackupLevelRecorder and TraceRecorder are optional and detected with type assertions.
// Concrete sinks (Prometheus, InfluxDB) live in infra/metrics and register
// themselves with RegisterMetricsSink; NewMetricsSink builds a MultiSink when
// several sinks are configured.
package metrics
