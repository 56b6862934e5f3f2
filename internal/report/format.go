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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders report figures with locale grouping and decimal marks.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter returns a formatter for a BCP 47 locale such as "en-US" or
// "id-ID". An unparseable locale falls back to American English.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}
}

// Number formats v with exactly precision fraction digits.
func (f *Formatter) Number(v float64, precision int) string {
	return f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision)))
}

// Int formats n with digit grouping.
func (f *Formatter) Int(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Money formats d with two fraction digits behind the currency symbol.
func (f *Formatter) Money(d decimal.Decimal) string {
	s := f.Number(d.InexactFloat64(), 2)
	if f.currency == "" {
		return s
	}
	return f.currency + " " + s
}
