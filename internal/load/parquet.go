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
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

// decimalScale is the fixed scale of money columns in parquet output.
const decimalScale = 4

func init() {
	Register(parquetWriter{})
}

type parquetWriter struct{}

func (parquetWriter) Format() string    { return "parquet" }
func (parquetWriter) Extension() string { return "parquet" }

func (parquetWriter) Write(path string, f *table.Frame) error {
	schema := arrowSchema(f)
	mem := memory.NewGoAllocator()

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()
	for _, row := range f.Rows {
		for i, v := range row {
			if err := appendValue(rb.Field(i), v); err != nil {
				return fmt.Errorf("column %s: %w", f.Columns[i].Name, err)
			}
		}
	}
	rec := rb.NewRecord()
	defer rec.Release()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := pqarrow.NewFileWriter(schema, file, nil, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func arrowSchema(f *table.Frame) *arrow.Schema {
	fields := make([]arrow.Field, len(f.Columns))
	for i, c := range f.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.Int:
		return arrow.PrimitiveTypes.Int64
	case table.Float:
		return arrow.PrimitiveTypes.Float64
	case table.Decimal:
		return &arrow.Decimal128Type{Precision: 38, Scale: decimalScale}
	case table.Bool:
		return arrow.FixedWidthTypes.Boolean
	case table.Date:
		return arrow.FixedWidthTypes.Date32
	case table.Timestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.Int64Builder:
		x, ok := v.(int64)
		if !ok {
			return fmt.Errorf("want int64, got %T", v)
		}
		bb.Append(x)
	case *array.Float64Builder:
		x, ok := v.(float64)
		if !ok {
			return fmt.Errorf("want float64, got %T", v)
		}
		bb.Append(x)
	case *array.Decimal128Builder:
		x, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("want decimal, got %T", v)
		}
		bb.Append(decimal128.FromBigInt(x.Round(decimalScale).Shift(decimalScale).BigInt()))
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("want bool, got %T", v)
		}
		bb.Append(x)
	case *array.Date32Builder:
		x, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("want time, got %T", v)
		}
		bb.Append(arrow.Date32FromTime(x))
	case *array.TimestampBuilder:
		x, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("want time, got %T", v)
		}
		bb.Append(arrow.Timestamp(x.UnixMicro()))
	case *array.StringBuilder:
		bb.Append(table.FormatCell(v, table.String))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}
