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
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary = &props.Color{Red: 52, Green: 152, Blue: 219}
	colorHeading = &props.Color{Red: 44, Green: 62, Blue: 80}
	colorGray    = &props.Color{Red: 119, Green: 119, Blue: 119}
)

const (
	gridSize = 12

	// charsPerLine approximates how much 9pt text fits on one A4 line.
	charsPerLine = 100
)

// writePDF lays out the report data with maroto and saves it to path.
func writePDF(path string, data *pageData, charts []Chart) error {
	doc, err := buildPDF(data, charts).Generate()
	if err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.Save(path)
}

func buildPDF(data *pageData, charts []Chart) core.Maroto {
	cfg := marotocfg.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(text.NewRow(12, data.Title, props.Text{
		Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorHeading,
	}))
	m.AddRows(text.NewRow(6, "Generated at: "+data.GeneratedAt, props.Text{
		Size: 8, Align: align.Center, Color: colorGray,
	}))

	m.AddRows(sectionRows("Executive Summary")...)
	for _, item := range data.Summary {
		m.AddRows(row.New(7).Add(
			col.New(8).Add(text.New(item.Label, props.Text{Size: 10})),
			col.New(4).Add(text.New(item.Value, props.Text{
				Size: 10, Style: fontstyle.Bold, Align: align.Right,
			})),
		))
	}

	if data.NarrativeText != "" {
		m.AddRows(sectionRows("Narrative Analysis")...)
		for _, para := range strings.Split(data.NarrativeText, "\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			m.AddRows(text.NewRow(paragraphHeight(para), para, props.Text{
				Size: 9, Align: align.Left,
			}))
		}
	}

	if len(charts) > 0 {
		m.AddRows(sectionRows("Charts")...)
		for _, c := range charts {
			m.AddRows(text.NewRow(7, c.Title, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary,
			}))
			m.AddRows(image.NewFromBytesRow(95, c.PNG, extension.Png, props.Rect{
				Center: true, Percent: 95,
			}))
		}
	}

	for _, t := range reportTables {
		td, ok := data.Tables[t.name]
		if !ok {
			continue
		}
		m.AddRows(sectionRows(td.Title)...)
		m.AddRows(tableRowsPDF(td)...)
	}

	return m
}

func sectionRows(title string) []core.Row {
	return []core.Row{
		row.New(6),
		text.NewRow(9, title, props.Text{
			Style: fontstyle.Bold, Size: 12, Color: colorHeading, Top: 2,
		}),
		line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}),
	}
}

func tableRowsPDF(td *tableData) []core.Row {
	size := gridSize / max(len(td.Columns), 1)
	cells := func(values []string, style fontstyle.Type) core.Row {
		r := row.New(6)
		for i, v := range values {
			a := align.Right
			if i == 0 {
				a = align.Left
			}
			r.Add(col.New(size).Add(text.New(v, props.Text{Size: 8, Style: style, Align: a})))
		}
		return r
	}

	rows := []core.Row{cells(td.Columns, fontstyle.Bold)}
	for _, values := range td.Rows {
		rows = append(rows, cells(values, fontstyle.Normal))
	}
	return rows
}

// paragraphHeight estimates the row height in millimetres for a wrapped
// paragraph.
func paragraphHeight(s string) float64 {
	lines := len(s)/charsPerLine + 1
	return float64(lines)*4.5 + 1
}
