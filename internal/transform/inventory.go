//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// NeverMovedDays is the idle day count given to pairs without movements.
const NeverMovedDays = 9999

// PairStatus is a stock row joined with its last recorded movement.
type PairStatus struct {
	model.Stock

	// LastMovement is zero when the pair never moved.
	LastMovement          time.Time
	DaysSinceLastMovement int64
	IsDeadStock           bool
}

// Moved reports whether the pair has any recorded movement.
func (p PairStatus) Moved() bool {
	return !p.LastMovement.IsZero()
}

// InventorySummary holds the scalar inventory metrics.
type InventorySummary struct {
	TotalDeadStockItems   int
	TotalDeadStockValue   decimal.Decimal
	StockTurnoverRatio    float64
	DaysOfInventoryOnHand float64
}

// InventoryResult is the output of the inventory stage.
type InventoryResult struct {
	// Pairs covers every stock row; DeadStock is the flagged subset.
	Pairs     []PairStatus
	DeadStock []PairStatus
	Summary   InventorySummary
}

func runInventory(ds *model.Dataset, in Analytics, opts Options) (Analytics, error) {
	in.Inventory = InventoryMetrics(ds, opts.DeadStockDays, opts.Now)
	return in, nil
}

// InventoryMetrics flags dead stock and computes turnover and days of
// inventory on hand. A pair is dead when it has been idle for more than
// deadStockDays and still holds stock.
func InventoryMetrics(ds *model.Dataset, deadStockDays int, now time.Time) *InventoryResult {
	last := make(map[model.PairKey]time.Time)
	var first, latest time.Time
	for _, m := range ds.StockMovements {
		k := m.Key()
		if m.MovementDate.After(last[k]) {
			last[k] = m.MovementDate
		}
		if first.IsZero() || m.MovementDate.Before(first) {
			first = m.MovementDate
		}
		if m.MovementDate.After(latest) {
			latest = m.MovementDate
		}
	}

	res := &InventoryResult{Pairs: make([]PairStatus, 0, len(ds.Stock))}
	var onHand int64
	for _, s := range ds.Stock {
		p := PairStatus{Stock: s, DaysSinceLastMovement: NeverMovedDays}
		if t, ok := last[s.Key()]; ok {
			p.LastMovement = t
			p.DaysSinceLastMovement = daysBetween(t, now)
		}
		p.IsDeadStock = p.DaysSinceLastMovement > int64(deadStockDays) && s.QuantityOnHand > 0
		res.Pairs = append(res.Pairs, p)
		if p.IsDeadStock {
			res.DeadStock = append(res.DeadStock, p)
		}
		onHand += s.QuantityOnHand
	}

	var sold int64
	for _, d := range ds.SalesOrderDetails {
		sold += d.Quantity
	}

	var meanOnHand float64
	if len(ds.Stock) > 0 {
		meanOnHand = float64(onHand) / float64(len(ds.Stock))
	}

	span := int64(1)
	if !first.IsZero() {
		span = max(daysBetween(first, latest), 1)
	}

	var turnover, doh float64
	if meanOnHand > 0 {
		turnover = float64(sold) / meanOnHand
	}
	if sold > 0 {
		doh = meanOnHand / float64(sold) * float64(span)
	}

	res.Summary = InventorySummary{
		TotalDeadStockItems:   len(res.DeadStock),
		TotalDeadStockValue:   decimal.Zero,
		StockTurnoverRatio:    round2(turnover),
		DaysOfInventoryOnHand: round2(doh),
	}

	logging.Info().
		Int("dead_stock_items", res.Summary.TotalDeadStockItems).
		Float64("stock_turnover_ratio", res.Summary.StockTurnoverRatio).
		Float64("days_of_inventory_on_hand", res.Summary.DaysOfInventoryOnHand).
		Msg("Inventory metrics complete")

	return res
}

// daysBetween returns the whole days from a to b, rounding down.
func daysBetween(a, b time.Time) int64 {
	return int64(math.Floor(b.Sub(a).Hours() / 24))
}
