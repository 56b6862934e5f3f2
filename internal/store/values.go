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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// timestampLayouts are accepted when reading timestamps back; the first is
// the one written.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// formatText renders a column value for CSV; NULL is the empty string.
func formatText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case dateValue:
		return time.Time(x).Format(time.DateOnly)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// formatSQL renders a column value as a SQL literal.
func formatSQL(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64, decimal.Decimal:
		return formatText(x)
	default:
		return quoteLiteral(formatText(x))
	}
}

// quoteLiteral quotes s for a standard_conforming_strings literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// copyValue converts a column value to what pgx expects for COPY.
func copyValue(v any) any {
	if d, ok := v.(dateValue); ok {
		return time.Time(d)
	}
	return v
}

// rowReader decodes one CSV record by column name. Only the first failure
// of a record is kept.
type rowReader struct {
	index  map[string]int
	fields []string
	line   int
	err    error
}

func newRowReader(header []string, required []string) (*rowReader, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return &rowReader{index: index}, nil
}

func (r *rowReader) reset(fields []string, line int) {
	r.fields = fields
	r.line = line
	r.err = nil
}

func (r *rowReader) fail(col string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d, column %s: %w", r.line, col, err)
	}
}

func (r *rowReader) str(col string) string {
	i := r.index[col]
	if i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r *rowReader) int(col string) int64 {
	v, err := parseInt(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return v
}

// nullInt reads an optional integer; empty means 0.
func (r *rowReader) nullInt(col string) int64 {
	if r.str(col) == "" {
		return 0
	}
	return r.int(col)
}

func (r *rowReader) decimal(col string) decimal.Decimal {
	d, err := decimal.NewFromString(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return d
}

func (r *rowReader) timestamp(col string) time.Time {
	t, err := ParseTimestamp(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return t
}

func (r *rowReader) status(col string) model.OrderStatus {
	s, err := model.ParseOrderStatus(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return s
}

func (r *rowReader) movementType(col string) model.MovementType {
	t, err := model.ParseMovementType(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return t
}

func (r *rowReader) referenceType(col string) model.ReferenceType {
	t, err := model.ParseReferenceType(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return t
}

// parseInt accepts integers and integral floats such as "12.0", which
// dataframe tools emit for nullable integer columns.
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int64(f), nil
}

// ParseTimestamp parses the timestamp layouts written by this package and
// by common dataframe exports. Results are in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
