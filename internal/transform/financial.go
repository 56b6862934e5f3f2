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
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// ABC classes.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

// Classes lists the ABC classes in order.
var Classes = []string{ClassA, ClassB, ClassC}

// shareEpsilon absorbs float error when a cumulative share lands exactly on
// a threshold.
const shareEpsilon = 1e-9

// ABCRow is one product in the revenue ranking.
type ABCRow struct {
	ProductID         int64
	Revenue           decimal.Decimal
	CumulativeRevenue decimal.Decimal

	// RevenueShare is the cumulative share of total revenue, 0..1.
	RevenueShare float64
	Class        string
}

// StockValueRow values one stock row at weighted average purchase cost.
type StockValueRow struct {
	model.Stock
	AvgCost    decimal.Decimal
	StockValue decimal.Decimal
}

// FinancialSummary holds the scalar financial metrics.
type FinancialSummary struct {
	TotalRevenue        decimal.Decimal
	TotalInventoryValue decimal.Decimal
	ClassCounts         map[string]int
}

// FinancialResult is the output of the financial stage.
type FinancialResult struct {
	ABC        []ABCRow
	StockValue []StockValueRow
	Summary    FinancialSummary
}

func runFinancial(ds *model.Dataset, in Analytics, opts Options) (Analytics, error) {
	fin := FinancialMetrics(ds, opts.ABC)

	// The inventory summary gains the dead stock value; replace it with an
	// amended copy rather than editing the earlier stage's output.
	inv := *in.Inventory
	inv.Summary.TotalDeadStockValue = DeadStockValue(inv.DeadStock, fin.StockValue)
	in.Inventory = &inv
	in.Financial = fin

	logging.Info().
		Str("total_dead_stock_value", inv.Summary.TotalDeadStockValue.StringFixed(2)).
		Msg("Dead stock valued")
	return in, nil
}

// FinancialMetrics ranks products by revenue into ABC classes and values
// current stock at quantity-weighted average purchase cost.
func FinancialMetrics(ds *model.Dataset, th ABCThresholds) *FinancialResult {
	res := &FinancialResult{
		ABC:        ClassifyABC(RankRevenue(ds.SalesOrderDetails), th),
		StockValue: StockValues(ds.Stock, ds.PurchaseOrderDetails),
	}

	res.Summary.ClassCounts = map[string]int{ClassA: 0, ClassB: 0, ClassC: 0}
	res.Summary.TotalRevenue = decimal.Zero
	for _, r := range res.ABC {
		res.Summary.ClassCounts[r.Class]++
	}
	if n := len(res.ABC); n > 0 {
		res.Summary.TotalRevenue = res.ABC[n-1].CumulativeRevenue
	}
	res.Summary.TotalInventoryValue = decimal.Zero
	for _, v := range res.StockValue {
		res.Summary.TotalInventoryValue = res.Summary.TotalInventoryValue.Add(v.StockValue)
	}

	logging.Info().
		Int("class_a", res.Summary.ClassCounts[ClassA]).
		Int("class_b", res.Summary.ClassCounts[ClassB]).
		Int("class_c", res.Summary.ClassCounts[ClassC]).
		Str("total_inventory_value", res.Summary.TotalInventoryValue.StringFixed(2)).
		Msg("Financial metrics complete")

	return res
}

// ProductRevenue is the total sales revenue of one product.
type ProductRevenue struct {
	ProductID int64
	Amount    decimal.Decimal
}

// RankRevenue sums quantity × unit price per product, sorted by revenue
// descending and product id ascending.
func RankRevenue(details []model.SalesOrderDetail) []ProductRevenue {
	sums := make(map[int64]decimal.Decimal)
	for _, d := range details {
		sums[d.ProductID] = sums[d.ProductID].Add(d.UnitPrice.Mul(decimal.NewFromInt(d.Quantity)))
	}
	out := make([]ProductRevenue, 0, len(sums))
	for id, amt := range sums {
		out = append(out, ProductRevenue{ProductID: id, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// ClassifyABC assigns classes by cumulative revenue share. A product is A
// while its cumulative share stays within the A threshold. It is B when
// its revenue begins before the A+B threshold, so the product straddling
// that boundary still counts as B. Everything after is C.
func ClassifyABC(ranked []ProductRevenue, th ABCThresholds) []ABCRow {
	total := decimal.Zero
	for _, r := range ranked {
		total = total.Add(r.Amount)
	}

	rows := make([]ABCRow, len(ranked))
	cum := decimal.Zero
	prevShare := 0.0
	for i, r := range ranked {
		cum = cum.Add(r.Amount)
		share := 0.0
		if total.IsPositive() {
			share = cum.Div(total).InexactFloat64()
		}
		rows[i] = ABCRow{
			ProductID:         r.ProductID,
			Revenue:           r.Amount,
			CumulativeRevenue: cum,
			RevenueShare:      share,
			Class:             abcClass(share, prevShare, th),
		}
		prevShare = share
	}
	return rows
}

func abcClass(share, prevShare float64, th ABCThresholds) string {
	switch {
	case share <= th.A+shareEpsilon:
		return ClassA
	case prevShare < th.A+th.B-shareEpsilon:
		return ClassB
	default:
		return ClassC
	}
}

// StockValues values each stock row. Products never purchased cost 0.
func StockValues(stock []model.Stock, purchases []model.PurchaseOrderDetail) []StockValueRow {
	type acc struct {
		cost decimal.Decimal
		qty  int64
	}
	costs := make(map[int64]*acc)
	for _, d := range purchases {
		a, ok := costs[d.ProductID]
		if !ok {
			a = &acc{}
			costs[d.ProductID] = a
		}
		a.cost = a.cost.Add(d.UnitPrice.Mul(decimal.NewFromInt(d.Quantity)))
		a.qty += d.Quantity
	}

	out := make([]StockValueRow, len(stock))
	for i, s := range stock {
		avg := decimal.Zero
		if a, ok := costs[s.ProductID]; ok && a.qty != 0 {
			avg = a.cost.DivRound(decimal.NewFromInt(a.qty), 4)
		}
		out[i] = StockValueRow{
			Stock:      s,
			AvgCost:    avg,
			StockValue: avg.Mul(decimal.NewFromInt(s.QuantityOnHand)).Round(2),
		}
	}
	return out
}

// DeadStockValue sums the stock value of the dead pairs.
func DeadStockValue(dead []PairStatus, values []StockValueRow) decimal.Decimal {
	byPair := make(map[model.PairKey]decimal.Decimal, len(values))
	for _, v := range values {
		byPair[v.Key()] = byPair[v.Key()].Add(v.StockValue)
	}
	total := decimal.Zero
	for _, p := range dead {
		total = total.Add(byPair[p.Key()])
	}
	return total
}
