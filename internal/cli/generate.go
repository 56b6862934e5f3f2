//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/db"
	"github.com/pgEdge/pgedge-stockgen/internal/generator"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/metrics"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/store"
)

var (
	genOutputDir string
	genFormat    string
	genMovements int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic warehouse dataset",
	Long: `Generate master data, purchase and sales orders, a stock movement
ledger with injected data-quality defects, and the stock levels derived
from the ledger.

Formats:
  csv      - one <table>.csv per table in the output directory (default)
  sql      - a single transactional all_data.sql script
  postgres - load directly into the configured database (schema must exist)

Example:
  pgedge-stockgen generate --format csv --output-dir ./output
  pgedge-stockgen generate --seed 42 --movements 50000
  pgedge-stockgen generate --format postgres --config stockgen.yaml`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "",
		"directory for csv or sql output")
	generateCmd.Flags().StringVar(&genFormat, "format", "",
		"output format: csv, sql or postgres")
	generateCmd.Flags().IntVar(&genMovements, "movements", 0,
		"number of stock movement draws")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genOutputDir != "" {
		cfg.Generate.OutputDir = genOutputDir
	}
	if genFormat != "" {
		cfg.Generate.Format = genFormat
	}
	if genMovements > 0 {
		cfg.Generate.Volumes.StockMovements = genMovements
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	opts, err := generatorOptions(cfg.Generate)
	if err != nil {
		return err
	}
	g, err := generator.New(opts, newFaker())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rec := metrics.New()
	finish := rec.Stage("generate")
	res, err := g.Run()
	finish()
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}
	recordGeneration(rec, res)

	if err := writeDataset(ctx, cfg, res.Dataset); err != nil {
		return err
	}

	rec.Finished(time.Now())
	writeMetrics(rec)

	counts := res.Dataset.RowCounts()
	logging.Info().
		Str("format", cfg.Generate.Format).
		Int("products", counts[model.TableProducts]).
		Int("movements", counts[model.TableStockMovements]).
		Int("stock_rows", counts[model.TableStock]).
		Int("dq_effective", res.Injection.TotalEffective()).
		Int("dropped_slots", res.DroppedSalesSlots).
		Msg("Dataset generation complete")
	return nil
}

// generatorOptions maps the generate configuration to generator options.
func generatorOptions(g config.GenerateConfig) (generator.Options, error) {
	start, end, err := g.DateRange()
	if err != nil {
		return generator.Options{}, err
	}
	v := g.Volumes
	return generator.Options{
		Categories:     v.Categories,
		Suppliers:      v.Suppliers,
		Warehouses:     v.Warehouses,
		Products:       v.Products,
		PurchaseOrders: v.PurchaseOrders,
		SalesOrders:    v.SalesOrders,
		StockMovements: v.StockMovements,
		PODetailsAvg:   v.PODetailsAvg,
		SODetailsAvg:   v.SODetailsAvg,
		Start:          start,
		End:            end,
		ParetoSplit:    g.ParetoSplit,
		ParetoVolume:   g.ParetoVolume,
		DQIssuePercent: g.DQIssuePercent,
		Now:            time.Now,
	}, nil
}

func recordGeneration(rec *metrics.Recorder, res *generator.Result) {
	for table, n := range res.Dataset.RowCounts() {
		rec.GeneratedRows(table, n)
	}
	for defect, attempted := range res.Injection.Attempted {
		effective := res.Injection.Effective[defect]
		rec.DQInjected(string(defect), true, effective)
		rec.DQInjected(string(defect), false, attempted-effective)
	}
}

// writeDataset persists ds to the configured sink.
func writeDataset(ctx context.Context, c *config.Config, ds *model.Dataset) error {
	switch c.Generate.Format {
	case "csv":
		return store.WriteCSV(c.Generate.OutputDir, ds)
	case "sql":
		return store.WriteSQLScript(c.Generate.OutputDir, ds)
	case "postgres":
		pool, err := db.Connect(ctx, c.Database.ConnString())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		return store.LoadPostgres(ctx, pool, ds)
	default:
		return fmt.Errorf("unsupported format: %s", c.Generate.Format)
	}
}
