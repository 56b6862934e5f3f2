//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/store"
)

func TestParseLoadType(t *testing.T) {
	tests := []struct {
		in      string
		want    LoadType
		wantErr bool
	}{
		{"full", LoadFull, false},
		{"incremental", LoadIncremental, false},
		{"delta", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLoadType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRequestIncremental(t *testing.T) {
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, Request{LoadType: LoadFull, Since: since}.Incremental())
	assert.False(t, Request{LoadType: LoadIncremental}.Incremental())
	assert.True(t, Request{LoadType: LoadIncremental, Since: since}.Incremental())
}

func writeLedger(t *testing.T) string {
	t.Helper()
	ds := &model.Dataset{
		Warehouses: []model.Warehouse{{ID: 1, Name: "A Warehouse", LocationCode: "WH-001"}},
		Products:   []model.Product{{ID: 1, SKU: "1", Name: "Widget", CategoryID: 1, SupplierID: 1}},
		StockMovements: []model.StockMovement{
			{ID: 1, ProductID: 1, WarehouseID: 1, Type: model.MovementIn, Quantity: 10,
				MovementDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 2, ProductID: 1, WarehouseID: 1, Type: model.MovementOut, Quantity: -2,
				MovementDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 3, ProductID: 1, WarehouseID: 1, Type: model.MovementOut, Quantity: -3,
				MovementDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	dir := t.TempDir()
	require.NoError(t, store.WriteCSV(dir, ds))
	return dir
}

func TestCSVSourceExtract(t *testing.T) {
	src := &CSVSource{Dir: writeLedger(t)}
	assert.Equal(t, "csv", src.Name())

	ds, err := src.Extract(context.Background(), Request{LoadType: LoadFull})
	require.NoError(t, err)
	assert.Len(t, ds.StockMovements, 3)
	assert.Len(t, ds.Products, 1)

	// The watermark itself is excluded.
	ds, err = src.Extract(context.Background(), Request{
		LoadType: LoadIncremental,
		Since:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, ds.StockMovements, 1)
	assert.Equal(t, int64(3), ds.StockMovements[0].ID)
	assert.Len(t, ds.Products, 1, "reference tables are read in full")
}

func TestCSVSourceMissingDir(t *testing.T) {
	src := &CSVSource{Dir: t.TempDir()}
	_, err := src.Extract(context.Background(), Request{LoadType: LoadFull})
	assert.Error(t, err)
}

func TestCSVSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&CSVSource{Dir: writeLedger(t)}).Extract(ctx, Request{LoadType: LoadFull})
	assert.ErrorIs(t, err, context.Canceled)
}
