//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func products(n int) []model.Product {
	out := make([]model.Product, n)
	for i := range out {
		out[i] = model.Product{ID: int64(i + 1)}
	}
	return out
}

func warehouses(n int) []model.Warehouse {
	out := make([]model.Warehouse, n)
	for i := range out {
		out[i] = model.Warehouse{ID: int64(i + 1)}
	}
	return out
}

func mv(id, product, warehouse, qty int64) model.StockMovement {
	return model.StockMovement{
		ID:           id,
		ProductID:    product,
		WarehouseID:  warehouse,
		Type:         model.MovementIn,
		Quantity:     qty,
		MovementDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculateStockCartesianFill(t *testing.T) {
	ledger := []model.StockMovement{
		mv(1, 1, 1, 300),
		mv(2, 1, 1, -20),
		mv(3, 2, 2, 5),
		mv(4, 2, 2, -5), // nets to zero
	}
	stock := CalculateStock(datagen.NewFakerWithSeed(1), products(2), warehouses(2), ledger)

	require.Len(t, stock, 4)
	byKey := make(map[model.PairKey]model.Stock)
	for _, s := range stock {
		byKey[s.Key()] = s
	}

	busy := byKey[model.PairKey{ProductID: 1, WarehouseID: 1}]
	assert.Equal(t, int64(280), busy.QuantityOnHand)
	assert.True(t, busy.ReorderPoint >= 10 && busy.ReorderPoint <= 50)
	assert.True(t, busy.SafetyStock >= 5 && busy.SafetyStock <= busy.ReorderPoint)

	for _, k := range []model.PairKey{{ProductID: 1, WarehouseID: 2}, {ProductID: 2, WarehouseID: 1}, {ProductID: 2, WarehouseID: 2}} {
		s := byKey[k]
		assert.Equal(t, int64(0), s.QuantityOnHand, "pair %v", k)
		assert.Equal(t, int64(10), s.ReorderPoint, "pair %v", k)
		assert.Equal(t, int64(5), s.SafetyStock, "pair %v", k)
	}

	// Sorted by product then warehouse.
	assert.Equal(t, model.PairKey{ProductID: 1, WarehouseID: 1}, stock[0].Key())
	assert.Equal(t, model.PairKey{ProductID: 2, WarehouseID: 2}, stock[3].Key())
}

func TestCalculateStockReorderFloor(t *testing.T) {
	ledger := []model.StockMovement{
		mv(1, 1, 1, 3),
		mv(2, 1, 2, -40),
	}
	stock := CalculateStock(datagen.NewFakerWithSeed(2), products(1), warehouses(2), ledger)

	for _, s := range stock {
		assert.GreaterOrEqual(t, s.QuantityOnHand, int64(0), "stock must never be negative")
		assert.InDelta(t, float64(s.ReorderPoint), float64(s.QuantityOnHand), 5)
	}
}

func TestCalculateStockIdempotent(t *testing.T) {
	res, err := newTestGenerator(t, testOptions(), 11).Run()
	require.NoError(t, err)
	ds := res.Dataset

	seed := uint64(11)
	again := CalculateStock(datagen.NewFakerWithSeed(seed).Derive(stockSalt), ds.Products, ds.Warehouses, ds.StockMovements)
	assert.Equal(t, ds.Stock, again)

	for _, s := range ds.Stock {
		assert.GreaterOrEqual(t, s.QuantityOnHand, int64(0))
	}
}

func TestInjectDefects(t *testing.T) {
	ledger := make([]model.StockMovement, 0, 200)
	for i := int64(1); i <= 200; i++ {
		m := mv(i, 1, 1, 10)
		m.Reference = model.PurchaseOrderRef(1)
		if i%2 == 0 {
			m.Type = model.MovementOut
			m.Quantity = -4
			m.Reference = model.SalesOrderRef(1)
		}
		ledger = append(ledger, m)
	}
	original := append([]model.StockMovement(nil), ledger...)

	report := InjectDefects(datagen.NewFakerWithSeed(3), ledger, 0.25, fixedNow)
	assert.Equal(t, 50, report.TotalAttempted())
	assert.LessOrEqual(t, report.Effective[DefectInvalidQty], report.Attempted[DefectInvalidQty])
	assert.Equal(t, report.Attempted[DefectBadReference], report.Effective[DefectBadReference])
	assert.Equal(t, report.Attempted[DefectFutureDate], report.Effective[DefectFutureDate])

	changed := 0
	for i, m := range ledger {
		o := original[i]
		if m != o {
			changed++
		}
		if m.Reference.ID != o.Reference.ID {
			assert.Equal(t, model.InvalidReferenceID, m.Reference.ID)
		}
		if m.Quantity != o.Quantity {
			assert.Equal(t, model.MovementIn, m.Type, "only inbound rows may get a negative quantity")
			assert.Equal(t, -o.Quantity, m.Quantity)
		}
		if !m.MovementDate.Equal(o.MovementDate) {
			days := m.MovementDate.Sub(fixedNow).Hours() / 24
			assert.True(t, days >= 30 && days <= 365, "future date offset %.1f days", days)
		}
	}
	assert.Equal(t, report.TotalEffective(), changed)
}

func TestInjectDefectsZeroPercent(t *testing.T) {
	ledger := []model.StockMovement{mv(1, 1, 1, 10)}
	report := InjectDefects(datagen.NewFakerWithSeed(4), ledger, 0, fixedNow)
	assert.Equal(t, 0, report.TotalAttempted())
	assert.Equal(t, int64(10), ledger[0].Quantity)
}
