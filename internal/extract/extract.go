//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads a warehouse dataset back from a generated sink and
// screens the movement ledger for defects before analysis.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// LoadType selects between a full read and a watermark-bounded read.
type LoadType string

const (
	LoadFull        LoadType = "full"
	LoadIncremental LoadType = "incremental"
)

// ParseLoadType validates a configured load type.
func ParseLoadType(s string) (LoadType, error) {
	switch LoadType(s) {
	case LoadFull, LoadIncremental:
		return LoadType(s), nil
	}
	return "", fmt.Errorf("unknown load type: %q (valid: full, incremental)", s)
}

// Request describes one extraction.
type Request struct {
	LoadType LoadType

	// Since bounds an incremental read: only movements strictly after it
	// are returned. Reference tables are always read in full.
	Since time.Time
}

// Incremental reports whether the request filters the ledger.
func (r Request) Incremental() bool {
	return r.LoadType == LoadIncremental && !r.Since.IsZero()
}

// Source reads the table set from a sink.
type Source interface {
	Name() string
	Extract(ctx context.Context, req Request) (*model.Dataset, error)
}

// movementsSince keeps the movements dated strictly after since.
func movementsSince(movements []model.StockMovement, since time.Time) []model.StockMovement {
	out := make([]model.StockMovement, 0, len(movements))
	for _, m := range movements {
		if m.MovementDate.After(since) {
			out = append(out, m)
		}
	}
	return out
}
