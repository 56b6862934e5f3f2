//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the analytics ETL: extract, quality filter,
// transforms, load and report, in that order.
package pipeline

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/db"
	"github.com/pgEdge/pgedge-stockgen/internal/extract"
	"github.com/pgEdge/pgedge-stockgen/internal/load"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/metrics"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/report"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

// Reporter renders the analytics of a run.
type Reporter interface {
	Generate(ctx context.Context, a transform.Analytics) (*report.Result, error)
}

// Options control a single run.
type Options struct {
	LoadType extract.LoadType

	// Since overrides the configured watermark for incremental runs.
	Since time.Time

	// SkipReport disables the report for this run.
	SkipReport bool
}

// Result describes a finished run.
type Result struct {
	RunID uuid.UUID

	// Skipped is set when there were no movements to process.
	Skipped bool

	Filter    extract.FilterReport
	Analytics transform.Analytics
	Load      *load.Report

	// Report is nil when no report was produced.
	Report *report.Result
}

// Runner executes pipeline runs. Nil optional collaborators disable their
// step.
type Runner struct {
	Config *config.Config
	Source extract.Source

	// SummaryDB receives the per-run summary row; nil skips it.
	SummaryDB *sql.DB

	// Metadata stores the incremental watermark; nil disables it.
	Metadata db.Querier

	// Reporter renders the report; nil disables it.
	Reporter Reporter

	Metrics *metrics.Recorder

	// Now returns the run time; defaults to time.Now.
	Now func() time.Time

	pool *pgxpool.Pool
}

// Open builds a runner from configuration. A postgres source that cannot
// be reached is a connection failure. For a csv source the database is only
// used for the summary table, and an unreachable one is skipped.
func Open(ctx context.Context, cfg *config.Config, rec *metrics.Recorder) (*Runner, error) {
	log := logging.With("pipeline")
	r := &Runner{Config: cfg, Metrics: rec, Now: time.Now}

	switch cfg.ETL.Source {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.Database.ConnString())
		if err != nil {
			return nil, stageError(StageExtract, ErrConnection, err)
		}
		r.pool = pool
		r.Source = &extract.PostgresSource{DB: pool}
		r.Metadata = pool
	default:
		r.Source = &extract.CSVSource{Dir: cfg.ETL.InputDir}
		if cfg.ETL.SummaryTable != "" && cfg.Database.Configured() {
			pool, err := db.Connect(ctx, cfg.Database.ConnString())
			if err != nil {
				log.Warn().Err(err).Msg("Database unavailable; the run summary will not be stored")
			} else {
				r.pool = pool
			}
		}
	}

	if r.pool != nil && cfg.ETL.SummaryTable != "" {
		r.SummaryDB = db.SQLDB(r.pool)
	}
	if cfg.Report.Enabled {
		r.Reporter = report.New(cfg.Report)
	}
	return r, nil
}

// Close releases the database connections opened by Open.
func (r *Runner) Close() {
	if r.SummaryDB != nil {
		r.SummaryDB.Close()
	}
	if r.pool != nil {
		r.pool.Close()
	}
}

// Run executes one pipeline run. Extract and transform failures halt the
// run; individual output failures are collected in Result.Load.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if r.Metrics == nil {
		r.Metrics = metrics.New()
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	log := logging.With("pipeline")
	started := r.Now().UTC()
	res := &Result{RunID: uuid.New()}

	log.Info().
		Str("run_id", res.RunID.String()).
		Str("load_type", string(opts.LoadType)).
		Str("source", r.Source.Name()).
		Msg("Starting ETL pipeline")

	// Extract
	req := extract.Request{LoadType: opts.LoadType}
	if opts.LoadType == extract.LoadIncremental {
		since, err := r.watermark(ctx, opts)
		if err != nil {
			return res, stageError(StageExtract, ErrConnection, err)
		}
		if since.IsZero() {
			log.Warn().Msg("No watermark available; extracting every movement")
		}
		req.Since = since
	}
	done := r.Metrics.Stage(StageExtract)
	ds, err := r.Source.Extract(ctx, req)
	done()
	if err != nil {
		log.Error().Err(err).Msg("Extract failed")
		return res, stageError(StageExtract, ErrConnection, err)
	}

	// Quality filter
	clean, filter := extract.FilterMovements(ds.StockMovements, started)
	ds.StockMovements = clean
	res.Filter = filter
	for issue, n := range filter.ByIssue {
		r.Metrics.DQDiscarded(string(issue), n)
	}
	log.Info().
		Int("total", filter.Total).
		Int("discarded", filter.Discarded).
		Int("kept", filter.Kept()).
		Msg("Data quality filter applied")

	if len(clean) == 0 {
		log.Warn().Msg("No new stock movements to process; stopping")
		res.Skipped = true
		r.finish()
		return res, nil
	}

	// Transform
	done = r.Metrics.Stage(StageTransform)
	analytics, err := transform.Run(ds, r.transformOptions(started))
	done()
	if err != nil {
		log.Error().Err(err).Msg("Transform failed")
		return res, stageError(StageTransform, ErrTransform, err)
	}
	res.Analytics = analytics

	// Load
	done = r.Metrics.Stage(StageLoad)
	loader, err := load.NewFileLoader(r.Config.ETL.OutputDir, r.Config.ETL.Format, nil)
	if err != nil {
		done()
		return res, stageError(StageLoad, ErrLoad, err)
	}
	res.Load = loader.Load(analytics.Frames())
	r.loadSummary(ctx, res, started)
	done()
	for _, name := range res.Load.FailedNames() {
		r.Metrics.LoadFailure(name)
	}

	// Report
	if r.Reporter != nil && !opts.SkipReport {
		done = r.Metrics.Stage(StageReport)
		rep, err := r.Reporter.Generate(ctx, analytics)
		done()
		if err != nil {
			log.Error().Err(err).Msg("Report generation failed")
		} else {
			res.Report = rep
		}
	}

	// Watermark
	if r.Metadata != nil {
		latest := latestMovement(clean)
		if err := db.SaveWatermark(ctx, r.Metadata, latest); err != nil {
			log.Error().Err(err).Msg("Failed to save watermark")
			r.finish()
			return res, stageError(StageWatermark, ErrConnection, err)
		}
		log.Info().Time("watermark", latest).Msg("Watermark saved")
	}

	r.finish()
	log.Info().
		Str("run_id", res.RunID.String()).
		Int("outputs", len(res.Load.Written)).
		Int("failed_outputs", len(res.Load.Failed)).
		Msg("ETL pipeline complete")
	return res, nil
}

// watermark picks the incremental lower bound: the explicit option, then
// the configured timestamp, then the stored one.
func (r *Runner) watermark(ctx context.Context, opts Options) (time.Time, error) {
	if !opts.Since.IsZero() {
		return opts.Since, nil
	}
	ts, err := r.Config.ETL.Watermark()
	if err != nil {
		return time.Time{}, err
	}
	if !ts.IsZero() || r.Metadata == nil {
		return ts, nil
	}
	ts, _, err = db.GetWatermark(ctx, r.Metadata)
	return ts, err
}

func (r *Runner) transformOptions(now time.Time) transform.Options {
	e := r.Config.ETL
	return transform.Options{
		DeadStockDays: e.DeadStockDays,
		ABC: transform.ABCThresholds{
			A: e.ABC.APercent,
			B: e.ABC.BPercent,
			C: e.ABC.CPercent,
		},
		Now: now,
	}
}

// loadSummary appends the run summary row. A failure is recorded against
// the summary table in the load report.
func (r *Runner) loadSummary(ctx context.Context, res *Result, at time.Time) {
	log := logging.With("load")
	table := r.Config.ETL.SummaryTable
	if table == "" {
		return
	}
	if r.SummaryDB == nil {
		log.Warn().Str("table", table).Msg("No database configured; skipping run summary")
		return
	}
	row := load.NewSummaryRow(res.RunID, at, res.Analytics)
	if err := load.AppendSummary(ctx, r.SummaryDB, table, row); err != nil {
		res.Load.Failed[table] = err
		log.Error().Err(err).Str("table", table).Msg("Failed to store run summary")
		return
	}
	res.Load.Written = append(res.Load.Written, table)
	log.Info().Str("table", table).Msg("Run summary stored")
}

func (r *Runner) finish() {
	log := logging.With("pipeline")
	r.Metrics.Finished(r.Now())
	path := r.Config.ETL.MetricsFile
	if path == "" {
		return
	}
	if err := r.Metrics.WriteTextfile(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write metrics file")
	}
}

func latestMovement(movements []model.StockMovement) time.Time {
	var latest time.Time
	for _, m := range movements {
		if m.MovementDate.After(latest) {
			latest = m.MovementDate
		}
	}
	return latest
}
