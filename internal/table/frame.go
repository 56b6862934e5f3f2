//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table provides Frame, a small typed row set that analytics
// outputs are converted to before they are written or rendered.
package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the value type of a column.
type Kind int

const (
	Int Kind = iota
	Float
	Decimal
	String
	Bool
	Date
	Timestamp
)

var kindNames = map[Kind]string{
	Int:       "int",
	Float:     "float",
	Decimal:   "decimal",
	String:    "string",
	Bool:      "bool",
	Date:      "date",
	Timestamp: "timestamp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Column is a named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Frame is an ordered set of rows sharing one column layout. Cell values
// are int64, float64, decimal.Decimal, string, bool or time.Time according
// to the column kind; nil is NULL.
type Frame struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// New creates an empty frame.
func New(name string, columns ...Column) *Frame {
	return &Frame{Name: name, Columns: columns}
}

// Append adds a row. It panics when the value count does not match the
// column count, which is always a programming error.
func (f *Frame) Append(values ...any) {
	if len(values) != len(f.Columns) {
		panic(fmt.Sprintf("table %s: got %d values for %d columns", f.Name, len(values), len(f.Columns)))
	}
	f.Rows = append(f.Rows, values)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i of the named column.
func (f *Frame) Value(i int, name string) (any, error) {
	col := f.Index(name)
	if col < 0 {
		return nil, fmt.Errorf("table %s: no column %q", f.Name, name)
	}
	if i < 0 || i >= len(f.Rows) {
		return nil, fmt.Errorf("table %s: row %d out of range", f.Name, i)
	}
	return f.Rows[i][col], nil
}

// Head returns a frame holding at most n leading rows. Rows are shared.
func (f *Frame) Head(n int) *Frame {
	n = min(n, len(f.Rows))
	return &Frame{Name: f.Name, Columns: f.Columns, Rows: f.Rows[:n]}
}

// FormatCell renders a value as text. Dates use YYYY-MM-DD, timestamps
// RFC 3339, floats the shortest exact form, and NULL the empty string.
func FormatCell(v any, kind Kind) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if kind == Date {
			return x.Format(time.DateOnly)
		}
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
