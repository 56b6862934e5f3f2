//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
)

// DefaultProgressInterval is how often (in rows) generation progress is logged.
const DefaultProgressInterval int64 = 100000

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rows int64) {
	oldRow := p.currentRow
	p.currentRow += rows

	// Check if we crossed a progress interval
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := 0.0
		if p.totalRows > 0 {
			pct = float64(p.currentRow) / float64(p.totalRows) * 100
		}
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Rows returns the number of rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}

// Sequence hands out monotonically increasing ids starting at 1.
type Sequence struct {
	next int64
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	s.next++
	return s.next
}

// Peek returns the id Next would return without consuming it.
func (s *Sequence) Peek() int64 {
	return s.next + 1
}

// Last returns the most recently issued id, or 0.
func (s *Sequence) Last() int64 {
	return s.next
}
