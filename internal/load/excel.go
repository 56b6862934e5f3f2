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
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

func init() {
	Register(excelWriter{})
}

type excelWriter struct{}

func (excelWriter) Format() string    { return "excel" }
func (excelWriter) Extension() string { return "xlsx" }

func (excelWriter) Write(path string, f *table.Frame) error {
	x := excelize.NewFile()
	defer x.Close()

	sheet := f.Name
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]any, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c.Name
	}
	if err := x.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range f.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = excelValue(v, f.Columns[i].Kind)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	return x.SaveAs(path)
}

// excelValue maps frame values to types excelize stores natively. Dates are
// written as text so they do not depend on the workbook's date style.
func excelValue(v any, kind table.Kind) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		return table.FormatCell(x, kind)
	default:
		return v
	}
}
