//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"sort"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// TransferPattern aggregates the transfers from one warehouse to another.
type TransferPattern struct {
	FromWarehouseID int64
	ToWarehouseID   int64

	// TotalTransfers counts distinct transfer references.
	TotalTransfers int64
	TotalQuantity  int64
}

// WarehouseIO counts the movements of one warehouse by type.
type WarehouseIO struct {
	WarehouseID int64
	Counts      map[model.MovementType]int64
}

// WarehouseResult is the output of the warehouse stage.
type WarehouseResult struct {
	// TransferPatterns is sorted by TotalTransfers descending.
	TransferPatterns []TransferPattern

	// IO is sorted by warehouse id.
	IO []WarehouseIO
}

func runWarehouse(ds *model.Dataset, in Analytics, _ Options) (Analytics, error) {
	in.Warehouse = WarehousePerformance(ds.StockMovements)
	return in, nil
}

type transferKey struct {
	referenceID int64
	productID   int64
}

type route struct {
	from, to int64
}

// WarehousePerformance reconstructs transfers and counts movements per
// warehouse and type. Outbound legs (negative TRANSFER rows) are joined to
// inbound legs on reference id and product; every matching combination is
// a pair, and a pattern counts each reference once.
func WarehousePerformance(movements []model.StockMovement) *WarehouseResult {
	outs := make(map[transferKey][]int64)
	var ins []model.StockMovement
	io := make(map[int64]map[model.MovementType]int64)

	for _, m := range movements {
		counts, ok := io[m.WarehouseID]
		if !ok {
			counts = make(map[model.MovementType]int64, len(model.MovementTypes))
			io[m.WarehouseID] = counts
		}
		counts[m.Type]++

		if m.Type != model.MovementTransfer || !m.Reference.HasID() {
			continue
		}
		k := transferKey{referenceID: m.Reference.ID, productID: m.ProductID}
		switch {
		case m.Quantity < 0:
			outs[k] = append(outs[k], m.WarehouseID)
		case m.Quantity > 0:
			ins = append(ins, m)
		}
	}

	refs := make(map[route]map[int64]struct{})
	qty := make(map[route]int64)
	for _, in := range ins {
		k := transferKey{referenceID: in.Reference.ID, productID: in.ProductID}
		for _, from := range outs[k] {
			r := route{from: from, to: in.WarehouseID}
			if refs[r] == nil {
				refs[r] = make(map[int64]struct{})
			}
			refs[r][in.Reference.ID] = struct{}{}
			qty[r] += in.Quantity
		}
	}

	res := &WarehouseResult{}
	for r, set := range refs {
		res.TransferPatterns = append(res.TransferPatterns, TransferPattern{
			FromWarehouseID: r.from,
			ToWarehouseID:   r.to,
			TotalTransfers:  int64(len(set)),
			TotalQuantity:   qty[r],
		})
	}
	sort.Slice(res.TransferPatterns, func(i, j int) bool {
		a, b := res.TransferPatterns[i], res.TransferPatterns[j]
		if a.TotalTransfers != b.TotalTransfers {
			return a.TotalTransfers > b.TotalTransfers
		}
		if a.FromWarehouseID != b.FromWarehouseID {
			return a.FromWarehouseID < b.FromWarehouseID
		}
		return a.ToWarehouseID < b.ToWarehouseID
	})

	for id, counts := range io {
		res.IO = append(res.IO, WarehouseIO{WarehouseID: id, Counts: counts})
	}
	sort.Slice(res.IO, func(i, j int) bool { return res.IO[i].WarehouseID < res.IO[j].WarehouseID })

	logging.Info().
		Int("routes", len(res.TransferPatterns)).
		Int("warehouses", len(res.IO)).
		Msg("Warehouse performance complete")

	return res
}
