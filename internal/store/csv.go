//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// WriteCSV writes one <table>.csv per table into dir, creating it if needed.
func WriteCSV(dir string, ds *model.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, t := range Tables {
		path := filepath.Join(dir, t.Name+".csv")
		if err := writeCSVFile(path, t, ds); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
		logging.Info().
			Str("table", t.Name).
			Int("rows", len(t.rows(ds))).
			Str("path", path).
			Msg("Saved table")
	}
	return nil
}

func writeCSVFile(path string, t Table, ds *model.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeCSV(f, t, ds)
}

// EncodeCSV writes table t of ds as CSV with a header row.
func EncodeCSV(w io.Writer, t Table, ds *model.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.rows(ds) {
		for i, v := range row {
			record[i] = formatText(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads the tables named in names (all tables when empty) from
// <dir>/<table>.csv. A missing file is an error.
func ReadCSV(dir string, names ...string) (*model.Dataset, error) {
	if len(names) == 0 {
		names = model.TableNames
	}
	ds := &model.Dataset{}
	for _, name := range names {
		t, err := TableByName(name)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name+".csv")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		err = DecodeCSV(f, t, ds)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return ds, nil
}

// DecodeCSV appends the rows of table t read from r to ds. Columns are
// matched by header name, so column order does not matter.
func DecodeCSV(r io.Reader, t Table, ds *model.Dataset) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty file")
		}
		return err
	}
	rr, err := newRowReader(header, t.Columns)
	if err != nil {
		return err
	}

	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rr.reset(fields, line)
		t.decode(ds, rr)
		if rr.err != nil {
			return rr.err
		}
	}
}
