//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/extract"
	"github.com/pgEdge/pgedge-stockgen/internal/generator"
	"github.com/pgEdge/pgedge-stockgen/internal/metrics"
	"github.com/pgEdge/pgedge-stockgen/internal/report"
	"github.com/pgEdge/pgedge-stockgen/internal/store"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// writeDataset generates a small dataset with injected defects into a
// CSV directory.
func writeDataset(t *testing.T) string {
	t.Helper()
	g, err := generator.New(generator.Options{
		Categories:     3,
		Suppliers:      4,
		Warehouses:     3,
		Products:       25,
		PurchaseOrders: 20,
		SalesOrders:    40,
		StockMovements: 500,
		PODetailsAvg:   3,
		SODetailsAvg:   2,
		Start:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		ParetoSplit:    0.2,
		ParetoVolume:   0.8,
		DQIssuePercent: 0.05,
		Now:            func() time.Time { return fixedNow },
	}, datagen.NewFakerWithSeed(7))
	require.NoError(t, err)
	res, err := g.Run()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, store.WriteCSV(dir, res.Dataset))
	return dir
}

type stubReporter struct {
	calls int
	err   error
}

func (s *stubReporter) Generate(context.Context, transform.Analytics) (*report.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &report.Result{HTMLPath: "report.html"}, nil
}

func newRunner(t *testing.T, inputDir string) (*Runner, *stubReporter) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ETL.InputDir = inputDir
	cfg.ETL.OutputDir = filepath.Join(t.TempDir(), "analytics")
	cfg.ETL.SummaryTable = ""

	rep := &stubReporter{}
	return &Runner{
		Config:   cfg,
		Source:   &extract.CSVSource{Dir: inputDir},
		Reporter: rep,
		Metrics:  metrics.New(),
		Now:      func() time.Time { return fixedNow },
	}, rep
}

func TestRunFull(t *testing.T) {
	r, rep := newRunner(t, writeDataset(t))

	res, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Positive(t, res.Filter.Discarded, "injected defects are filtered")
	assert.Equal(t, res.Filter.Total-res.Filter.Discarded, res.Filter.Kept())

	a := res.Analytics
	assert.NotNil(t, a.Inventory)
	assert.NotNil(t, a.Movement)
	assert.NotNil(t, a.Financial)
	assert.NotNil(t, a.Warehouse)

	require.NotNil(t, res.Load)
	assert.True(t, res.Load.OK())
	assert.Len(t, res.Load.Written, len(transform.Outputs))
	for _, name := range transform.Outputs {
		assert.FileExists(t, filepath.Join(r.Config.ETL.OutputDir, name+".csv"))
	}

	assert.Equal(t, 1, rep.calls)
	require.NotNil(t, res.Report)
}

func TestRunSkipReport(t *testing.T) {
	r, rep := newRunner(t, writeDataset(t))

	res, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull, SkipReport: true})
	require.NoError(t, err)
	assert.Zero(t, rep.calls)
	assert.Nil(t, res.Report)
}

func TestRunReportFailureDegrades(t *testing.T) {
	r, rep := newRunner(t, writeDataset(t))
	rep.err = errors.New("disk full")

	res, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)
	assert.Nil(t, res.Report)
	assert.True(t, res.Load.OK())
}

func TestRunIncrementalEmpty(t *testing.T) {
	r, rep := newRunner(t, writeDataset(t))

	res, err := r.Run(context.Background(), Options{
		LoadType: extract.LoadIncremental,
		Since:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Nil(t, res.Load)
	assert.Zero(t, rep.calls)
	assert.NoDirExists(t, r.Config.ETL.OutputDir)
}

func TestRunIncrementalUsesConfiguredWatermark(t *testing.T) {
	r, _ := newRunner(t, writeDataset(t))
	r.Config.ETL.LastRunTimestamp = "2024-12-01"

	full, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)
	inc, err := r.Run(context.Background(), Options{LoadType: extract.LoadIncremental})
	require.NoError(t, err)

	assert.False(t, inc.Skipped)
	assert.Less(t, inc.Filter.Total, full.Filter.Total)
}

func TestRunExtractFailure(t *testing.T) {
	r, _ := newRunner(t, filepath.Join(t.TempDir(), "missing"))

	_, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageExtract, se.Stage)
}

func TestRunLoadFailure(t *testing.T) {
	r, _ := newRunner(t, writeDataset(t))
	r.Config.ETL.Format = "xml"

	_, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestRunSummaryTable(t *testing.T) {
	r, _ := newRunner(t, writeDataset(t))
	r.Config.ETL.SummaryTable = "etl_run_summary"

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	r.SummaryDB = sqlDB

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "etl_run_summary"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "etl_run_summary"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)
	assert.True(t, res.Load.OK())
	assert.Contains(t, res.Load.Written, "etl_run_summary")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSummaryFailureIsPartial(t *testing.T) {
	r, _ := newRunner(t, writeDataset(t))
	r.Config.ETL.SummaryTable = "etl_run_summary"

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	r.SummaryDB = sqlDB

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "etl_run_summary"`)).
		WillReturnError(errors.New("permission denied"))

	res, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)
	assert.Equal(t, []string{"etl_run_summary"}, res.Load.FailedNames())
	assert.Len(t, res.Load.Written, len(transform.Outputs))
}

func TestRunWritesMetricsFile(t *testing.T) {
	r, _ := newRunner(t, writeDataset(t))
	r.Config.ETL.MetricsFile = filepath.Join(t.TempDir(), "stockgen.prom")

	_, err := r.Run(context.Background(), Options{LoadType: extract.LoadFull})
	require.NoError(t, err)

	raw, err := os.ReadFile(r.Config.ETL.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), metrics.MetricLastRunTimestamp)
	assert.Contains(t, string(raw), metrics.MetricDQDiscardedRowsTotal)
	assert.Contains(t, string(raw), `stage="transform"`)
}

func TestStageError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := stageError(StageExtract, ErrConnection, cause)

	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTransform)
	assert.Equal(t, "extract stage: connection failure: dial tcp: refused", err.Error())

	cfgErr := ConfigError(errors.New("bad yaml"))
	assert.ErrorIs(t, cfgErr, ErrConfigLoad)
}
