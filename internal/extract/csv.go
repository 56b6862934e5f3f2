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
	"context"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
	"github.com/pgEdge/pgedge-stockgen/internal/store"
)

// CSVSource reads a directory written by the generator's csv format.
type CSVSource struct {
	Dir string
}

// Name returns the source name.
func (s *CSVSource) Name() string {
	return "csv"
}

// Extract reads every table from Dir. Incremental requests drop ledger rows
// at or before the watermark after reading.
func (s *CSVSource) Extract(ctx context.Context, req Request) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := store.ReadCSV(s.Dir)
	if err != nil {
		return nil, err
	}
	if req.Incremental() {
		total := len(ds.StockMovements)
		ds.StockMovements = movementsSince(ds.StockMovements, req.Since)
		logging.Info().
			Time("since", req.Since).
			Int("total", total).
			Int("selected", len(ds.StockMovements)).
			Msg("Applied incremental watermark")
	}
	return ds, nil
}
