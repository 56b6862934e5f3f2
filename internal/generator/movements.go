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

// Movement mix in percent: IN, OUT, TRANSFER, ADJUSTMENT, RETURN.
var movementWeights = []int{35, 45, 10, 5, 5}

// transferLag separates the inbound leg of a transfer from its outbound leg.
const transferLag = 30 * time.Minute

const (
	noteTransferOut = "Transfer Out"
	noteTransferIn  = "Transfer In"
)

// Movements generates the signed stock ledger. Ids are strictly increasing.
// The volume counts draws, not rows: a TRANSFER draw emits two rows with
// consecutive ids, so the ledger exceeds the volume by the transfer count.
func (g *Generator) Movements(m MasterData, pos []model.PurchaseOrder, sos []model.SalesOrder) []model.StockMovement {
	f := g.faker
	target := g.opts.StockMovements
	out := make([]model.StockMovement, 0, target+target/8)
	var ids datagen.Sequence

	progress := datagen.NewProgressReporter(model.TableStockMovements, int64(target), 0)
	for draw := 0; draw < target; draw++ {
		productID := pickProduct(f, m, g.opts.ParetoVolume)
		warehouseID := datagen.Choose(f, m.Warehouses).ID
		mt := datagen.ChooseWeighted(f, model.MovementTypes, movementWeights)

		if mt == model.MovementTransfer {
			outID := ids.Next()
			inID := ids.Next()
			outbound, inbound := g.transferPair(m, outID, inID, productID, warehouseID)
			out = append(out, outbound, inbound)
			progress.Update(1)
			continue
		}

		mv := model.StockMovement{
			ID:           ids.Next(),
			ProductID:    productID,
			WarehouseID:  warehouseID,
			Type:         mt,
			MovementDate: g.dates.Sample(f),
			Notes:        datagen.Truncate(f.Sentence(6), 50),
		}
		switch mt {
		case model.MovementIn:
			mv.Quantity = f.Int64(50, 500)
			mv.Reference = model.PurchaseOrderRef(datagen.Choose(f, pos).ID)
		case model.MovementOut:
			mv.Quantity = -f.Int64(1, 10)
			mv.Reference = model.SalesOrderRef(datagen.Choose(f, sos).ID)
		case model.MovementReturn:
			mv.Quantity = f.Int64(1, 3)
			mv.Reference = model.SalesOrderRef(datagen.Choose(f, sos).ID)
		case model.MovementAdjustment:
			mv.Quantity = f.Int64(-5, 5)
			if mv.Quantity == 0 {
				mv.Quantity = 1
			}
			mv.Reference = model.ManualAdjustmentRef()
		}
		out = append(out, mv)
		progress.Update(1)
	}
	progress.Done()

	return out
}

// transferPair builds the two legs of a transfer. Both legs carry the
// outbound leg's id as reference; the destination is drawn from the
// warehouses other than the source.
func (g *Generator) transferPair(m MasterData, outID, inID, productID, source int64) (model.StockMovement, model.StockMovement) {
	f := g.faker
	qty := f.Int64(1, 50)
	when := g.dates.Sample(f)

	others := make([]int64, 0, len(m.Warehouses)-1)
	for _, w := range m.Warehouses {
		if w.ID != source {
			others = append(others, w.ID)
		}
	}
	dest := datagen.Choose(f, others)

	outbound := model.StockMovement{
		ID:           outID,
		ProductID:    productID,
		WarehouseID:  source,
		Type:         model.MovementTransfer,
		Quantity:     -qty,
		Reference:    model.TransferRef(outID),
		MovementDate: when,
		Notes:        noteTransferOut,
	}
	inbound := model.StockMovement{
		ID:           inID,
		ProductID:    productID,
		WarehouseID:  dest,
		Type:         model.MovementTransfer,
		Quantity:     qty,
		Reference:    model.TransferRef(outID),
		MovementDate: when.Add(transferLag),
		Notes:        noteTransferIn,
	}
	return outbound, inbound
}
