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
	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

// Output names, also the whitelist of tables the load stage writes.
const (
	OutDeadStockReport    = "dead_stock_report"
	OutInventorySummary   = "inventory_summary"
	OutDailyTrends        = "daily_trends"
	OutWeeklyTrends       = "weekly_trends"
	OutMonthlyTrends      = "monthly_trends"
	OutPeakDayOfWeek      = "peak_day_of_week"
	OutPeakMonth          = "peak_month"
	OutABCAnalysis        = "abc_analysis"
	OutStockValueReport   = "stock_value_report"
	OutFinancialSummary   = "financial_summary"
	OutTransferPatterns   = "transfer_patterns"
	OutWarehouseIOSummary = "warehouse_io_summary"
)

// Outputs lists every output in write order.
var Outputs = []string{
	OutDeadStockReport,
	OutInventorySummary,
	OutDailyTrends,
	OutWeeklyTrends,
	OutMonthlyTrends,
	OutPeakDayOfWeek,
	OutPeakMonth,
	OutABCAnalysis,
	OutStockValueReport,
	OutFinancialSummary,
	OutTransferPatterns,
	OutWarehouseIOSummary,
}

var stockColumns = []table.Column{
	{Name: "product_id", Kind: table.Int},
	{Name: "warehouse_id", Kind: table.Int},
	{Name: "quantity_on_hand", Kind: table.Int},
	{Name: "reorder_point", Kind: table.Int},
	{Name: "safety_stock", Kind: table.Int},
}

func stockCells(s model.Stock) []any {
	return []any{s.ProductID, s.WarehouseID, s.QuantityOnHand, s.ReorderPoint, s.SafetyStock}
}

func withColumns(extra ...table.Column) []table.Column {
	cols := make([]table.Column, 0, len(stockColumns)+len(extra))
	cols = append(cols, stockColumns...)
	return append(cols, extra...)
}

// Frames converts every available output to a frame, in Outputs order.
// Outputs of stages that have not run are omitted.
func (a Analytics) Frames() []*table.Frame {
	var out []*table.Frame
	for _, name := range Outputs {
		if f := a.Frame(name); f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Frame returns the named output, or nil when its stage has not run.
func (a Analytics) Frame(name string) *table.Frame {
	switch name {
	case OutDeadStockReport, OutInventorySummary:
		if a.Inventory == nil {
			return nil
		}
		if name == OutDeadStockReport {
			return deadStockFrame(a.Inventory.DeadStock)
		}
		return inventorySummaryFrame(a.Inventory.Summary)
	case OutDailyTrends, OutWeeklyTrends, OutMonthlyTrends, OutPeakDayOfWeek, OutPeakMonth:
		if a.Movement == nil {
			return nil
		}
		return movementFrame(name, a.Movement)
	case OutABCAnalysis, OutStockValueReport, OutFinancialSummary:
		if a.Financial == nil {
			return nil
		}
		return financialFrame(name, a.Financial)
	case OutTransferPatterns, OutWarehouseIOSummary:
		if a.Warehouse == nil {
			return nil
		}
		if name == OutTransferPatterns {
			return transferFrame(a.Warehouse.TransferPatterns)
		}
		return warehouseIOFrame(a.Warehouse.IO)
	}
	return nil
}

func deadStockFrame(rows []PairStatus) *table.Frame {
	f := table.New(OutDeadStockReport, withColumns(
		table.Column{Name: "movement_date", Kind: table.Timestamp},
		table.Column{Name: "days_since_last_movement", Kind: table.Int},
		table.Column{Name: "is_dead_stock", Kind: table.Bool},
	)...)
	for _, p := range rows {
		var last any
		if p.Moved() {
			last = p.LastMovement
		}
		f.Append(append(stockCells(p.Stock), last, p.DaysSinceLastMovement, p.IsDeadStock)...)
	}
	return f
}

func inventorySummaryFrame(s InventorySummary) *table.Frame {
	f := table.New(OutInventorySummary,
		table.Column{Name: "total_dead_stock_items", Kind: table.Int},
		table.Column{Name: "total_dead_stock_value", Kind: table.Decimal},
		table.Column{Name: "stock_turnover_ratio", Kind: table.Float},
		table.Column{Name: "days_of_inventory_on_hand", Kind: table.Float},
	)
	f.Append(int64(s.TotalDeadStockItems), s.TotalDeadStockValue, s.StockTurnoverRatio, s.DaysOfInventoryOnHand)
	return f
}

func movementFrame(name string, r *MovementResult) *table.Frame {
	switch name {
	case OutDailyTrends:
		f := table.New(name,
			table.Column{Name: "movement_date", Kind: table.Date},
			table.Column{Name: "daily_movements", Kind: table.Int},
			table.Column{Name: "day_of_week", Kind: table.String},
		)
		for _, b := range r.Daily {
			f.Append(b.Date, b.Count, b.Date.Weekday().String())
		}
		return f
	case OutWeeklyTrends:
		f := table.New(name,
			table.Column{Name: "movement_date", Kind: table.Date},
			table.Column{Name: "weekly_movements", Kind: table.Int},
		)
		for _, b := range r.Weekly {
			f.Append(b.Date, b.Count)
		}
		return f
	case OutMonthlyTrends:
		f := table.New(name,
			table.Column{Name: "movement_date", Kind: table.Date},
			table.Column{Name: "monthly_movements", Kind: table.Int},
			table.Column{Name: "month_name", Kind: table.String},
		)
		for _, b := range r.Monthly {
			f.Append(b.Date, b.Count, b.Date.Month().String())
		}
		return f
	case OutPeakDayOfWeek:
		return peakFrame(name, "day_of_week", "daily_movements", r.PeakDayOfWeek)
	default:
		return peakFrame(name, "month_name", "monthly_movements", r.PeakMonth)
	}
}

func peakFrame(name, labelCol, meanCol string, peaks []Peak) *table.Frame {
	f := table.New(name,
		table.Column{Name: labelCol, Kind: table.String},
		table.Column{Name: meanCol, Kind: table.Float},
	)
	for _, p := range peaks {
		f.Append(p.Label, p.Mean)
	}
	return f
}

func financialFrame(name string, r *FinancialResult) *table.Frame {
	switch name {
	case OutABCAnalysis:
		f := table.New(name,
			table.Column{Name: "product_id", Kind: table.Int},
			table.Column{Name: "revenue", Kind: table.Decimal},
			table.Column{Name: "total_revenue", Kind: table.Decimal},
			table.Column{Name: "revenue_cumsum", Kind: table.Decimal},
			table.Column{Name: "revenue_percent", Kind: table.Float},
			table.Column{Name: "abc_class", Kind: table.String},
		)
		for _, row := range r.ABC {
			f.Append(row.ProductID, row.Revenue, r.Summary.TotalRevenue, row.CumulativeRevenue, row.RevenueShare, row.Class)
		}
		return f
	case OutStockValueReport:
		f := table.New(name, withColumns(
			table.Column{Name: "avg_cost", Kind: table.Decimal},
			table.Column{Name: "stock_value", Kind: table.Decimal},
		)...)
		for _, row := range r.StockValue {
			f.Append(append(stockCells(row.Stock), row.AvgCost, row.StockValue)...)
		}
		return f
	default:
		f := table.New(name,
			table.Column{Name: "total_inventory_value", Kind: table.Decimal},
			table.Column{Name: "class_a_products", Kind: table.Int},
			table.Column{Name: "class_b_products", Kind: table.Int},
			table.Column{Name: "class_c_products", Kind: table.Int},
		)
		c := r.Summary.ClassCounts
		f.Append(r.Summary.TotalInventoryValue, int64(c[ClassA]), int64(c[ClassB]), int64(c[ClassC]))
		return f
	}
}

func transferFrame(patterns []TransferPattern) *table.Frame {
	f := table.New(OutTransferPatterns,
		table.Column{Name: "from_warehouse_id", Kind: table.Int},
		table.Column{Name: "to_warehouse_id", Kind: table.Int},
		table.Column{Name: "total_transfers", Kind: table.Int},
		table.Column{Name: "total_qty", Kind: table.Int},
	)
	for _, p := range patterns {
		f.Append(p.FromWarehouseID, p.ToWarehouseID, p.TotalTransfers, p.TotalQuantity)
	}
	return f
}

func warehouseIOFrame(rows []WarehouseIO) *table.Frame {
	cols := []table.Column{{Name: "warehouse_id", Kind: table.Int}}
	for _, mt := range model.MovementTypes {
		cols = append(cols, table.Column{Name: string(mt), Kind: table.Int})
	}
	f := table.New(OutWarehouseIOSummary, cols...)
	for _, row := range rows {
		cells := []any{row.WarehouseID}
		for _, mt := range model.MovementTypes {
			cells = append(cells, row.Counts[mt])
		}
		f.Append(cells...)
	}
	return f
}
