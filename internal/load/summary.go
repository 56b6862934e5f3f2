//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package load

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

// DefaultSummaryTable receives one row per run.
const DefaultSummaryTable = "etl_run_summary"

// SummaryRow flattens the scalar inventory and financial metrics of a run.
type SummaryRow struct {
	RunID                 uuid.UUID
	RunTimestamp          time.Time
	TotalDeadStockItems   int64
	TotalDeadStockValue   decimal.Decimal
	StockTurnoverRatio    float64
	DaysOfInventoryOnHand float64
	TotalInventoryValue   decimal.Decimal
	ClassAProducts        int64
	ClassBProducts        int64
	ClassCProducts        int64
}

// NewSummaryRow collects the scalars of a. Metrics of stages that did not
// run are zero.
func NewSummaryRow(runID uuid.UUID, at time.Time, a transform.Analytics) SummaryRow {
	row := SummaryRow{
		RunID:               runID,
		RunTimestamp:        at.UTC(),
		TotalDeadStockValue: decimal.Zero,
		TotalInventoryValue: decimal.Zero,
	}
	if inv := a.Inventory; inv != nil {
		row.TotalDeadStockItems = int64(inv.Summary.TotalDeadStockItems)
		row.TotalDeadStockValue = inv.Summary.TotalDeadStockValue
		row.StockTurnoverRatio = inv.Summary.StockTurnoverRatio
		row.DaysOfInventoryOnHand = inv.Summary.DaysOfInventoryOnHand
	}
	if fin := a.Financial; fin != nil {
		row.TotalInventoryValue = fin.Summary.TotalInventoryValue
		row.ClassAProducts = int64(fin.Summary.ClassCounts[transform.ClassA])
		row.ClassBProducts = int64(fin.Summary.ClassCounts[transform.ClassB])
		row.ClassCProducts = int64(fin.Summary.ClassCounts[transform.ClassC])
	}
	return row
}

const createSummarySQL = `
CREATE TABLE IF NOT EXISTS %s (
    run_id                     UUID PRIMARY KEY,
    run_timestamp              TIMESTAMPTZ NOT NULL,
    total_dead_stock_items     BIGINT NOT NULL,
    total_dead_stock_value     NUMERIC(18, 2) NOT NULL,
    stock_turnover_ratio       DOUBLE PRECISION NOT NULL,
    days_of_inventory_on_hand  DOUBLE PRECISION NOT NULL,
    total_inventory_value      NUMERIC(18, 2) NOT NULL,
    class_a_products           BIGINT NOT NULL,
    class_b_products           BIGINT NOT NULL,
    class_c_products           BIGINT NOT NULL
)`

const insertSummarySQL = `
INSERT INTO %s (
    run_id, run_timestamp, total_dead_stock_items, total_dead_stock_value,
    stock_turnover_ratio, days_of_inventory_on_hand, total_inventory_value,
    class_a_products, class_b_products, class_c_products
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// AppendSummary creates the summary table if needed and appends row.
func AppendSummary(ctx context.Context, db *sql.DB, tableName string, row SummaryRow) error {
	if tableName == "" {
		tableName = DefaultSummaryTable
	}
	ident := pgx.Identifier{tableName}.Sanitize()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(createSummarySQL, ident)); err != nil {
		return fmt.Errorf("failed to create summary table: %w", err)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(insertSummarySQL, ident),
		row.RunID,
		row.RunTimestamp,
		row.TotalDeadStockItems,
		row.TotalDeadStockValue.Round(2),
		row.StockTurnoverRatio,
		row.DaysOfInventoryOnHand,
		row.TotalInventoryValue.Round(2),
		row.ClassAProducts,
		row.ClassBProducts,
		row.ClassCProducts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert summary row: %w", err)
	}

	logging.Info().
		Str("table", tableName).
		Str("run_id", row.RunID.String()).
		Msg("Appended run summary")
	return nil
}
