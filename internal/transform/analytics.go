//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package transform computes the analytics suite over an extracted,
// filtered dataset: inventory health, movement trends, financial metrics
// and warehouse performance.
package transform

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Stage names.
const (
	StageInventory = "inventory"
	StageMovement  = "movement"
	StageFinancial = "financial"
	StageWarehouse = "warehouse"
)

// ErrMissingInput is returned when a stage runs before a stage it depends on.
var ErrMissingInput = errors.New("required analytics input missing")

// ABCThresholds are cumulative revenue shares expressed as fractions.
type ABCThresholds struct {
	A float64
	B float64
	C float64
}

// Options parameterize the suite.
type Options struct {
	// DeadStockDays is the idle period after which stocked pairs are dead.
	DeadStockDays int

	ABC ABCThresholds

	// Now is the reference time for day counts.
	Now time.Time
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		DeadStockDays: 180,
		ABC:           ABCThresholds{A: 0.80, B: 0.15, C: 0.05},
		Now:           time.Now().UTC(),
	}
}

// Analytics carries the output of each stage. A nil field means the stage
// has not run. Stages never modify a result they did not create.
type Analytics struct {
	Inventory *InventoryResult
	Movement  *MovementResult
	Financial *FinancialResult
	Warehouse *WarehouseResult
}

func (a Analytics) has(stage string) bool {
	switch stage {
	case StageInventory:
		return a.Inventory != nil
	case StageMovement:
		return a.Movement != nil
	case StageFinancial:
		return a.Financial != nil
	case StageWarehouse:
		return a.Warehouse != nil
	}
	return false
}

// Stage is one step of the suite. Run receives the analytics so far and
// returns an updated copy.
type Stage struct {
	Name     string
	Requires []string
	Run      func(ds *model.Dataset, in Analytics, opts Options) (Analytics, error)
}

// Stages returns the suite in its fixed order. Financial needs the dead
// stock report produced by inventory.
func Stages() []Stage {
	return []Stage{
		{Name: StageInventory, Run: runInventory},
		{Name: StageMovement, Run: runMovement},
		{Name: StageFinancial, Requires: []string{StageInventory}, Run: runFinancial},
		{Name: StageWarehouse, Run: runWarehouse},
	}
}

// Run executes the whole suite.
func Run(ds *model.Dataset, opts Options) (Analytics, error) {
	return RunStages(ds, opts, Stages()...)
}

// RunStages executes stages in order. It stops at the first failure or at
// the first stage whose inputs are missing.
func RunStages(ds *model.Dataset, opts Options, stages ...Stage) (Analytics, error) {
	var a Analytics
	if ds == nil {
		return a, errors.New("no dataset")
	}
	log := logging.With("transform")
	for _, st := range stages {
		for _, req := range st.Requires {
			if !a.has(req) {
				return a, fmt.Errorf("stage %s: %w: %s", st.Name, ErrMissingInput, req)
			}
		}
		start := time.Now()
		next, err := st.Run(ds, a, opts)
		if err != nil {
			return a, fmt.Errorf("stage %s: %w", st.Name, err)
		}
		a = next
		log.Info().
			Str("stage", st.Name).
			Dur("elapsed", time.Since(start)).
			Msg("Transform stage complete")
	}
	return a, nil
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
