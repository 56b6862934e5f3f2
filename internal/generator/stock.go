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
	"sort"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// stockSalt derives the snapshot's random source from the run seed.
const stockSalt = 0x570c4

// Defaults for pairs that never saw a net movement.
const (
	defaultReorderPoint = 10
	defaultSafetyStock  = 5
)

// CalculateStock derives the on-hand snapshot from the ledger. Quantities
// are summed per (product, warehouse); pairs that net to zero are dropped
// before the reorder floor is applied, then every product/warehouse pair
// missing from the result is filled with (0, 10, 5). The output is sorted
// by product then warehouse.
//
// The result depends only on its inputs and f, so calling it again with a
// Faker of the same seed reproduces it exactly.
func CalculateStock(f *datagen.Faker, products []model.Product, warehouses []model.Warehouse, movements []model.StockMovement) []model.Stock {
	totals := make(map[model.PairKey]int64)
	for _, mv := range movements {
		totals[mv.Key()] += mv.Quantity
	}

	keys := make([]model.PairKey, 0, len(totals))
	for k, qty := range totals {
		if qty != 0 {
			keys = append(keys, k)
		}
	}
	sortPairs(keys)

	computed := make(map[model.PairKey]model.Stock, len(keys))
	for _, k := range keys {
		reorder := f.Int64(10, 50)
		safety := f.Int64(5, reorder)
		qty := totals[k]
		// Anything at or below the reorder point, negatives included, is
		// lifted to roughly the reorder point. This keeps the snapshot
		// plausible but hides genuine stockouts from the analytics.
		if qty <= reorder {
			qty = reorder + f.Int64(-5, 5)
		}
		computed[k] = model.Stock{
			ProductID:      k.ProductID,
			WarehouseID:    k.WarehouseID,
			QuantityOnHand: qty,
			ReorderPoint:   reorder,
			SafetyStock:    safety,
		}
	}

	out := make([]model.Stock, 0, len(products)*len(warehouses))
	for _, p := range sortedProducts(products) {
		for _, w := range sortedWarehouses(warehouses) {
			k := model.PairKey{ProductID: p.ID, WarehouseID: w.ID}
			if s, ok := computed[k]; ok {
				out = append(out, s)
				continue
			}
			out = append(out, model.Stock{
				ProductID:    p.ID,
				WarehouseID:  w.ID,
				ReorderPoint: defaultReorderPoint,
				SafetyStock:  defaultSafetyStock,
			})
		}
	}
	return out
}

func sortPairs(keys []model.PairKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].WarehouseID < keys[j].WarehouseID
	})
}

func sortedProducts(products []model.Product) []model.Product {
	out := append([]model.Product(nil), products...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedWarehouses(warehouses []model.Warehouse) []model.Warehouse {
	out := append([]model.Warehouse(nil), warehouses...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
