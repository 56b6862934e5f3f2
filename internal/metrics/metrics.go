//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package metrics records run statistics on a private Prometheus registry
// and writes them as a node_exporter textfile.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metric names.
const (
	MetricGeneratedRowsTotal   = "stockgen_generated_rows_total"
	MetricDQInjectedTotal      = "stockgen_dq_injected_total"
	MetricDQDiscardedRowsTotal = "stockgen_dq_discarded_rows_total"
	MetricStageDurationSeconds = "stockgen_stage_duration_seconds"
	MetricLoadFailuresTotal    = "stockgen_load_failures_total"
	MetricLastRunTimestamp     = "stockgen_last_run_timestamp_seconds"
)

// Recorder holds the run metrics. The zero value is not usable; use New.
type Recorder struct {
	registry *prometheus.Registry

	generatedRows *prometheus.CounterVec
	dqInjected    *prometheus.CounterVec
	dqDiscarded   *prometheus.CounterVec
	stageDuration *prometheus.GaugeVec
	loadFailures  *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// New creates a recorder on its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		generatedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricGeneratedRowsTotal,
			Help: "Rows generated per table.",
		}, []string{"table"}),
		dqInjected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDQInjectedTotal,
			Help: "Data-quality defects chosen for injection, split by whether they changed the row.",
		}, []string{"issue", "effective"}),
		dqDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDQDiscardedRowsTotal,
			Help: "Ledger rows discarded by the extract-side quality filter.",
		}, []string{"issue"}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricStageDurationSeconds,
			Help: "Wall time of the last run of each pipeline stage.",
		}, []string{"stage"}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLoadFailuresTotal,
			Help: "Outputs that failed to load.",
		}, []string{"output"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRunTimestamp,
			Help: "Unix time the last run finished.",
		}),
	}
	r.registry.MustRegister(
		r.generatedRows,
		r.dqInjected,
		r.dqDiscarded,
		r.stageDuration,
		r.loadFailures,
		r.lastRun,
	)
	return r
}

// GeneratedRows adds n rows for table.
func (r *Recorder) GeneratedRows(table string, n int) {
	r.generatedRows.WithLabelValues(table).Add(float64(n))
}

// DQInjected adds n injected defects of issue.
func (r *Recorder) DQInjected(issue string, effective bool, n int) {
	r.dqInjected.WithLabelValues(issue, strconv.FormatBool(effective)).Add(float64(n))
}

// DQDiscarded adds n discarded ledger rows attributed to issue.
func (r *Recorder) DQDiscarded(issue string, n int) {
	r.dqDiscarded.WithLabelValues(issue).Add(float64(n))
}

// ObserveStage records the duration of stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// Stage starts timing stage; call the returned func when it ends.
func (r *Recorder) Stage(stage string) func() {
	start := time.Now()
	return func() { r.ObserveStage(stage, time.Since(start)) }
}

// LoadFailure counts one failed output.
func (r *Recorder) LoadFailure(output string) {
	r.loadFailures.WithLabelValues(output).Inc()
}

// Finished stamps the run completion time.
func (r *Recorder) Finished(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// Gather returns the current metric families.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the text exposition format. The file
// is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
