//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

// Chart names, also used as PNG file names.
const (
	ChartMonthlyMovements  = "monthly_movements"
	ChartABC               = "abc_analysis_pie"
	ChartWarehouseActivity = "warehouse_activity"
	ChartTopValue          = "top_10_value_products"
)

const (
	chartWidth  = 1024
	chartHeight = 600
	topN        = 10
)

// Chart is a rendered PNG image.
type Chart struct {
	Name  string
	Title string
	PNG   []byte
}

type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type chartSpec struct {
	name  string
	title string

	// build returns nil when the input stage has not run.
	build func(a transform.Analytics) renderer
}

var chartSpecs = []chartSpec{
	{ChartMonthlyMovements, "Monthly Sales Movements", monthlyChart},
	{ChartABC, "ABC Analysis (by Product Count)", abcChart},
	{ChartWarehouseActivity, "Warehouse Activity (Total Movements)", warehouseChart},
	{ChartTopValue, "Top 10 Most Valuable Stock Positions", topValueChart},
}

// RenderCharts renders every chart whose inputs are available. A chart that
// fails to render is logged and left out.
func RenderCharts(a transform.Analytics) []Chart {
	log := logging.With("report")
	var out []Chart
	for _, spec := range chartSpecs {
		r := spec.build(a)
		if r == nil {
			continue
		}
		png, err := renderPNG(r)
		if err != nil {
			log.Warn().
				Err(err).
				Str("chart", spec.name).
				Msg("Failed to render chart")
			continue
		}
		out = append(out, Chart{Name: spec.name, Title: spec.title, PNG: png})
	}
	log.Info().Int("charts", len(out)).Msg("Rendered charts")
	return out
}

func renderPNG(r renderer) (png []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("chart renderer panicked: %v", p)
		}
	}()
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func monthlyChart(a transform.Analytics) renderer {
	if a.Movement == nil {
		return nil
	}
	xs := make([]time.Time, len(a.Movement.Monthly))
	ys := make([]float64, len(a.Movement.Monthly))
	for i, b := range a.Movement.Monthly {
		xs[i] = b.Date
		ys[i] = float64(b.Count)
	}
	return &chart.Chart{
		Title:  "Monthly Sales Movements",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Month",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{Name: "Total Movements"},
		Series: []chart.Series{
			chart.TimeSeries{Name: "OUT", XValues: xs, YValues: ys},
		},
	}
}

func abcChart(a transform.Analytics) renderer {
	if a.Financial == nil {
		return nil
	}
	var values []chart.Value
	for _, class := range transform.Classes {
		if n := a.Financial.Summary.ClassCounts[class]; n > 0 {
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s (%d)", class, n),
				Value: float64(n),
			})
		}
	}
	return &chart.PieChart{
		Title:  "ABC Analysis (by Product Count)",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
}

func warehouseChart(a transform.Analytics) renderer {
	if a.Warehouse == nil {
		return nil
	}
	bars := make([]chart.StackedBar, 0, len(a.Warehouse.IO))
	for _, wio := range a.Warehouse.IO {
		values := make([]chart.Value, 0, len(model.MovementTypes))
		for _, mt := range model.MovementTypes {
			values = append(values, chart.Value{
				Label: string(mt),
				Value: float64(wio.Counts[mt]),
			})
		}
		bars = append(bars, chart.StackedBar{
			Name:   fmt.Sprintf("WH %d", wio.WarehouseID),
			Values: values,
		})
	}
	return &chart.StackedBarChart{
		Title:      "Warehouse Activity (Total Movements)",
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 40,
		Bars:       bars,
	}
}

func topValueChart(a transform.Analytics) renderer {
	if a.Financial == nil {
		return nil
	}
	rows := TopStockValues(a.Financial.StockValue, topN)
	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("P%d/W%d", r.ProductID, r.WarehouseID),
			Value: r.StockValue.InexactFloat64(),
		}
	}
	return &chart.BarChart{
		Title:    "Top 10 Most Valuable Stock Positions",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
	}
}

// TopStockValues returns the n most valuable stock rows, highest first.
// Ties keep product then warehouse order.
func TopStockValues(rows []transform.StockValueRow, n int) []transform.StockValueRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(x, y transform.StockValueRow) int {
		if c := y.StockValue.Cmp(x.StockValue); c != 0 {
			return c
		}
		if x.ProductID != y.ProductID {
			return int(x.ProductID - y.ProductID)
		}
		return int(x.WarehouseID - y.WarehouseID)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
