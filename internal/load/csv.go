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
	"encoding/csv"
	"os"

	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

func init() {
	Register(csvWriter{})
}

type csvWriter struct{}

func (csvWriter) Format() string    { return "csv" }
func (csvWriter) Extension() string { return "csv" }

func (csvWriter) Write(path string, f *table.Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(f.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			record[i] = table.FormatCell(v, f.Columns[i].Kind)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
