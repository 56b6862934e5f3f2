//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Defect is a kind of data-quality problem planted in the ledger.
type Defect string

const (
	DefectBadReference Defect = "bad_reference_id"
	DefectInvalidQty   Defect = "invalid_qty"
	DefectFutureDate   Defect = "future_date"
)

// Defects lists the injectable defects in a stable order.
var Defects = []Defect{DefectBadReference, DefectInvalidQty, DefectFutureDate}

// InjectionReport counts defects chosen versus defects that changed a row.
// invalid_qty only takes effect on IN and RETURN rows.
type InjectionReport struct {
	Attempted map[Defect]int
	Effective map[Defect]int
}

// TotalAttempted returns the number of rows selected for a defect.
func (r InjectionReport) TotalAttempted() int {
	return sum(r.Attempted)
}

// TotalEffective returns the number of rows actually modified.
func (r InjectionReport) TotalEffective() int {
	return sum(r.Effective)
}

func sum(m map[Defect]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// InjectDefects corrupts int(len*percent) distinct movements in place, each
// with one defect chosen uniformly. Future dates fall 30 to 365 days after
// now.
func InjectDefects(f *datagen.Faker, movements []model.StockMovement, percent float64, now time.Time) InjectionReport {
	report := InjectionReport{
		Attempted: make(map[Defect]int),
		Effective: make(map[Defect]int),
	}

	n := int(float64(len(movements)) * percent)
	for _, idx := range datagen.SampleIndexes(f, len(movements), n) {
		defect := datagen.Choose(f, Defects)
		report.Attempted[defect]++

		mv := &movements[idx]
		switch defect {
		case DefectBadReference:
			mv.Reference.ID = model.InvalidReferenceID
			report.Effective[defect]++
		case DefectInvalidQty:
			if mv.Type.IsInbound() {
				mv.Quantity = -abs(mv.Quantity)
				report.Effective[defect]++
			}
		case DefectFutureDate:
			mv.MovementDate = now.UTC().AddDate(0, 0, f.Int(30, 365))
			report.Effective[defect]++
		}
	}

	return report
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
