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
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

func sampleAnalytics() transform.Analytics {
	return transform.Analytics{
		Inventory: &transform.InventoryResult{
			Summary: transform.InventorySummary{
				TotalDeadStockItems:   3,
				TotalDeadStockValue:   decimal.RequireFromString("120.456"),
				StockTurnoverRatio:    4.2,
				DaysOfInventoryOnHand: 86.9,
			},
		},
		Financial: &transform.FinancialResult{
			Summary: transform.FinancialSummary{
				TotalInventoryValue: decimal.RequireFromString("9999.99"),
				ClassCounts:         map[string]int{transform.ClassA: 4, transform.ClassB: 2, transform.ClassC: 9},
			},
		},
	}
}

func TestNewSummaryRow(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	row := NewSummaryRow(id, at, sampleAnalytics())
	assert.Equal(t, id, row.RunID)
	assert.Equal(t, int64(3), row.TotalDeadStockItems)
	assert.Equal(t, 4.2, row.StockTurnoverRatio)
	assert.Equal(t, int64(9), row.ClassCProducts)
	assert.True(t, row.TotalInventoryValue.Equal(decimal.RequireFromString("9999.99")))

	empty := NewSummaryRow(id, at, transform.Analytics{})
	assert.Zero(t, empty.TotalDeadStockItems)
	assert.True(t, empty.TotalInventoryValue.IsZero())
}

func TestAppendSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	row := NewSummaryRow(uuid.New(), time.Now(), sampleAnalytics())

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "etl_run_summary"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "etl_run_summary"`)).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3), sqlmock.AnyArg(),
			4.2, 86.9, sqlmock.AnyArg(), int64(4), int64(2), int64(9),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, AppendSummary(context.Background(), db, "", row))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendSummaryInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "run_log"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "run_log"`)).
		WillReturnError(errors.New("permission denied"))

	err = AppendSummary(context.Background(), db, "run_log", NewSummaryRow(uuid.New(), time.Now(), sampleAnalytics()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
