//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report renders the analytics of an ETL run as charts, an HTML
// document and optionally a PDF, with an executive narrative requested
// from an OpenAI-compatible service.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/table"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

const (
	reportTitle = "Warehouse Analytics Report"
	chartsDir   = "charts"

	// tableRows caps the rows shown per report table.
	tableRows = 10
)

// reportTables are the analytics outputs shown as tables, with titles.
var reportTables = []struct {
	name  string
	title string
}{
	{transform.OutPeakDayOfWeek, "Peak Day of Week (Avg Movements)"},
	{transform.OutPeakMonth, "Peak Month (Avg Movements)"},
	{transform.OutTransferPatterns, "Top 10 Transfer Patterns"},
}

// Result describes the files a report run produced.
type Result struct {
	HTMLPath string

	// PDFPath is empty when no PDF was written.
	PDFPath string

	// Charts holds the paths of the written chart images.
	Charts []string

	// NarrativeErr is set when the narrative was replaced by a placeholder.
	NarrativeErr error
}

// Generator renders reports.
type Generator struct {
	cfg config.ReportConfig

	// Narrator writes the executive narrative; nil leaves it out.
	Narrator Narrator

	// Now stamps the report; defaults to time.Now.
	Now func() time.Time
}

// New creates a generator from the report configuration.
func New(cfg config.ReportConfig) *Generator {
	g := &Generator{cfg: cfg, Now: time.Now}
	if cfg.Narrative.Enabled {
		g.Narrator = NewClient(cfg.Narrative)
	}
	return g
}

type summaryItem struct {
	Label string
	Value string
}

type chartRef struct {
	Title string
	Src   string
}

type tableData struct {
	Title   string
	Columns []string
	Rows    [][]string
}

type pageData struct {
	Lang        string
	Title       string
	GeneratedAt string
	Summary     []summaryItem
	Narrative   template.HTML

	// NarrativeText is the narrative without markup, for the PDF.
	NarrativeText string

	Charts map[string]*chartRef
	Tables map[string]*tableData
}

// Generate writes the charts, the HTML report and, when enabled, the PDF.
// Chart, narrative and PDF failures degrade the report; only a failure to
// write the HTML document is returned.
func (g *Generator) Generate(ctx context.Context, a transform.Analytics) (*Result, error) {
	log := logging.With("report")

	dir := g.cfg.OutputDir
	if err := os.MkdirAll(filepath.Join(dir, chartsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	res := &Result{HTMLPath: filepath.Join(dir, g.cfg.Filename)}
	fmtr := NewFormatter(g.cfg.Locale, g.cfg.Currency)
	data := &pageData{
		Lang:        g.cfg.Locale,
		Title:       reportTitle,
		GeneratedAt: g.Now().Format("2006-01-02 15:04:05"),
		Summary:     summaryItems(a, fmtr),
		Charts:      make(map[string]*chartRef),
		Tables:      tableItems(a),
	}

	charts := RenderCharts(a)
	written := charts[:0]
	for _, c := range charts {
		p := filepath.Join(dir, chartsDir, c.Name+".png")
		if err := os.WriteFile(p, c.PNG, 0o644); err != nil {
			log.Warn().Err(err).Str("chart", c.Name).Msg("Failed to save chart")
			continue
		}
		written = append(written, c)
		res.Charts = append(res.Charts, p)
		data.Charts[c.Name] = &chartRef{Title: c.Title, Src: path.Join(chartsDir, c.Name+".png")}
	}

	g.narrate(ctx, a, data, res)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(res.HTMLPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", res.HTMLPath).Msg("HTML report saved")

	if g.cfg.PDF {
		pdfPath := strings.TrimSuffix(res.HTMLPath, filepath.Ext(res.HTMLPath)) + ".pdf"
		if err := writePDF(pdfPath, data, written); err != nil {
			log.Error().Err(err).Str("path", pdfPath).Msg("Failed to create PDF report")
		} else {
			res.PDFPath = pdfPath
			log.Info().Str("path", pdfPath).Msg("PDF report saved")
		}
	}

	return res, nil
}

func (g *Generator) narrate(ctx context.Context, a transform.Analytics, data *pageData, res *Result) {
	if g.Narrator == nil {
		return
	}
	log := logging.With("report")
	log.Info().Msg("Requesting narrative analysis")

	text, err := g.Narrator.Narrate(ctx, FactsFrom(a))
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate narrative")
		res.NarrativeErr = err
		data.Narrative = Placeholder(err)
		data.NarrativeText = "Error: " + placeholderText(err)
		return
	}
	data.Narrative = narrativeHTML(text)
	data.NarrativeText = plainTags.Replace(text)
}

func summaryItems(a transform.Analytics, f *Formatter) []summaryItem {
	var items []summaryItem
	if a.Financial != nil {
		items = append(items, summaryItem{"Total Inventory Value", f.Money(a.Financial.Summary.TotalInventoryValue)})
	}
	if a.Inventory != nil {
		s := a.Inventory.Summary
		items = append(items,
			summaryItem{"Stock Turnover Ratio", f.Number(s.StockTurnoverRatio, 1)},
			summaryItem{"Days of Inventory on Hand", f.Number(s.DaysOfInventoryOnHand, 1) + " days"},
			summaryItem{"Dead Stock Items", f.Int(int64(s.TotalDeadStockItems)) + " SKU"},
			summaryItem{"Dead Stock Value", f.Money(s.TotalDeadStockValue)},
		)
	}
	return items
}

func tableItems(a transform.Analytics) map[string]*tableData {
	out := make(map[string]*tableData)
	for _, t := range reportTables {
		frame := a.Frame(t.name)
		if frame == nil {
			continue
		}
		out[t.name] = frameTable(t.title, frame.Head(tableRows))
	}
	return out
}

func frameTable(title string, f *table.Frame) *tableData {
	td := &tableData{Title: title, Columns: f.ColumnNames()}
	for _, row := range f.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = table.FormatCell(v, f.Columns[i].Kind)
		}
		td.Rows = append(td.Rows, cells)
	}
	return td
}
