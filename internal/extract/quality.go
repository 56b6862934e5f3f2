//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Issue names a reason a ledger row was discarded.
type Issue string

const (
	IssueInvalidReference Issue = "invalid_reference"
	IssueInvalidQuantity  Issue = "invalid_quantity"
	IssueFutureDate       Issue = "future_date"
)

// Issues lists the checked issues in evaluation order.
var Issues = []Issue{IssueInvalidReference, IssueInvalidQuantity, IssueFutureDate}

// FilterReport summarizes one filter pass.
type FilterReport struct {
	Total     int
	Discarded int

	// ByIssue attributes each discarded row to the last matching issue.
	ByIssue map[Issue]int
}

// Kept returns the number of rows that passed.
func (r FilterReport) Kept() int {
	return r.Total - r.Discarded
}

// Classify returns the last issue the movement fails, if any. Checks run in
// Issues order, so a row failing several is tagged by the later check.
func Classify(m model.StockMovement, now time.Time) (Issue, bool) {
	var issue Issue
	if m.Reference.IsInvalid() {
		issue = IssueInvalidReference
	}
	if m.Type.IsInbound() && m.Quantity < 0 {
		issue = IssueInvalidQuantity
	}
	if m.MovementDate.After(now) {
		issue = IssueFutureDate
	}
	return issue, issue != ""
}

// FilterMovements returns the movements that pass every check, in their
// original order. The input is not modified.
func FilterMovements(movements []model.StockMovement, now time.Time) ([]model.StockMovement, FilterReport) {
	report := FilterReport{
		Total:   len(movements),
		ByIssue: make(map[Issue]int, len(Issues)),
	}
	clean := make([]model.StockMovement, 0, len(movements))
	for _, m := range movements {
		if issue, bad := Classify(m, now); bad {
			report.ByIssue[issue]++
			report.Discarded++
			continue
		}
		clean = append(clean, m)
	}
	return clean, report
}
