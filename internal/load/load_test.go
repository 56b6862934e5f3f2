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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

func sampleFrame() *table.Frame {
	f := table.New("stock_value_report",
		table.Column{Name: "product_id", Kind: table.Int},
		table.Column{Name: "avg_cost", Kind: table.Decimal},
		table.Column{Name: "ratio", Kind: table.Float},
		table.Column{Name: "is_dead_stock", Kind: table.Bool},
		table.Column{Name: "movement_date", Kind: table.Date},
		table.Column{Name: "last_seen", Kind: table.Timestamp},
		table.Column{Name: "abc_class", Kind: table.String},
	)
	f.Append(int64(1), decimal.RequireFromString("7.1234"), 0.5, true,
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), "A")
	f.Append(int64(2), decimal.Zero, 1.25, false, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), nil, "B")
	return f
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"csv", "excel", "parquet"}, Formats())

	for _, tt := range []struct{ format, ext string }{
		{"csv", "csv"},
		{"parquet", "parquet"},
		{"excel", "xlsx"},
	} {
		w, err := Get(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.ext, w.Extension())
	}

	_, err := Get("feather")
	assert.Error(t, err)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := Get("csv")
	require.NoError(t, err)
	require.NoError(t, w.Write(path, sampleFrame()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "product_id,avg_cost,ratio,is_dead_stock,movement_date,last_seen,abc_class", lines[0])
	assert.Equal(t, "1,7.1234,0.5,true,2024-01-31,2024-01-31T08:00:00Z,A", lines[1])
	assert.Equal(t, "2,0,1.25,false,2024-02-29,,B", lines[2])
}

func TestParquetWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	w, err := Get("parquet")
	require.NoError(t, err)
	require.NoError(t, w.Write(path, sampleFrame()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestParquetWriterTypeMismatch(t *testing.T) {
	f := table.New("bad", table.Column{Name: "n", Kind: table.Int})
	f.Append("not a number")
	w, err := Get("parquet")
	require.NoError(t, err)
	assert.Error(t, w.Write(filepath.Join(t.TempDir(), "bad.parquet"), f))
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w, err := Get("excel")
	require.NoError(t, err)
	require.NoError(t, w.Write(path, sampleFrame()))

	x, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer x.Close()

	rows, err := x.GetRows("stock_value_report")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "product_id", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2024-01-31", rows[1][4])
	assert.Equal(t, "A", rows[1][6])
}

// failingWriter fails for one frame name.
type failingWriter struct {
	Writer
	failOn string
}

func (w failingWriter) Write(path string, f *table.Frame) error {
	if f.Name == w.failOn {
		return errors.New("disk full")
	}
	return w.Writer.Write(path, f)
}

func TestFileLoaderContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileLoader(dir, "csv", []string{"a", "b", "c"})
	require.NoError(t, err)
	l.Writer = failingWriter{Writer: l.Writer, failOn: "b"}

	frame := func(name string) *table.Frame {
		f := table.New(name, table.Column{Name: "x", Kind: table.Int})
		f.Append(int64(1))
		return f
	}
	report := l.Load([]*table.Frame{frame("a"), frame("b"), frame("c"), frame("raw_stock")})

	assert.False(t, report.OK())
	assert.Equal(t, []string{"b"}, report.FailedNames())
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "c.csv")}, report.Written)
	assert.NoFileExists(t, filepath.Join(dir, "raw_stock.csv"), "frames outside the whitelist are skipped")
}

func TestNewFileLoaderUnknownFormat(t *testing.T) {
	_, err := NewFileLoader(t.TempDir(), "xml", nil)
	assert.Error(t, err)
}
