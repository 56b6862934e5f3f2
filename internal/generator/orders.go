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
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// maxSlotAttempts bounds the rejection sampler for a sales order line.
const maxSlotAttempts = 10

var statusWeights = []int{1, 1, 1, 6, 1}

// Price and quantity ranges per order side.
const (
	poMinQty   = 50
	poMaxQty   = 500
	poMinPrice = 5000.0
	poMaxPrice = 500000.0

	soMinQty   = 1
	soMaxQty   = 10
	soMinPrice = 10000.0
	soMaxPrice = 1000000.0
)

// PurchaseOrders is the generated inbound order book.
type PurchaseOrders struct {
	Orders  []model.PurchaseOrder
	Details []model.PurchaseOrderDetail
}

// SalesOrders is the generated outbound order book.
type SalesOrders struct {
	Orders  []model.SalesOrder
	Details []model.SalesOrderDetail

	// DroppedSlots counts lines abandoned after maxSlotAttempts collisions.
	DroppedSlots int
}

// PurchaseOrders generates purchase orders and their lines. Each order has
// Poisson(avg-1)+1 lines, capped at the product count, each for a distinct
// product.
func (g *Generator) PurchaseOrders(m MasterData) PurchaseOrders {
	f := g.faker
	var out PurchaseOrders
	var detailIDs datagen.Sequence
	ids := productIDs(m.Products)

	progress := datagen.NewProgressReporter(model.TablePurchaseOrders, int64(g.opts.PurchaseOrders), 0)
	for i := 1; i <= g.opts.PurchaseOrders; i++ {
		po := model.PurchaseOrder{
			ID:          int64(i),
			SupplierID:  datagen.Choose(f, m.Suppliers).ID,
			WarehouseID: datagen.Choose(f, m.Warehouses).ID,
			OrderDate:   g.dates.Sample(f),
			Status:      g.status(),
		}
		out.Orders = append(out.Orders, po)

		lines := min(g.lineCount(g.opts.PODetailsAvg), len(ids))
		for _, productID := range datagen.Sample(f, ids, lines) {
			out.Details = append(out.Details, model.PurchaseOrderDetail{
				ID:              detailIDs.Next(),
				PurchaseOrderID: po.ID,
				ProductID:       productID,
				Quantity:        f.Int64(poMinQty, poMaxQty),
				UnitPrice:       g.price(poMinPrice, poMaxPrice),
			})
		}
		progress.Update(1)
	}
	progress.Done()

	return out
}

// SalesOrders generates sales orders and their lines. Each line picks a
// product with Pareto skew and a uniform warehouse; a (product, warehouse)
// pair already on the order is redrawn up to maxSlotAttempts times before
// the line is dropped.
func (g *Generator) SalesOrders(m MasterData) SalesOrders {
	f := g.faker
	var out SalesOrders
	var detailIDs datagen.Sequence
	pairCap := len(m.Products) * len(m.Warehouses)

	progress := datagen.NewProgressReporter(model.TableSalesOrders, int64(g.opts.SalesOrders), 0)
	for i := 1; i <= g.opts.SalesOrders; i++ {
		so := model.SalesOrder{
			ID:              int64(i),
			CustomerName:    f.Name(),
			OrderDate:       g.dates.Sample(f),
			Status:          g.status(),
			ShippingAddress: f.Address(),
		}
		out.Orders = append(out.Orders, so)

		lines := min(g.lineCount(g.opts.SODetailsAvg), pairCap)
		used := make(map[model.PairKey]bool, lines)
		for slot := 0; slot < lines; slot++ {
			key, ok := g.drawFreePair(m, used)
			if !ok {
				out.DroppedSlots++
				continue
			}
			used[key] = true
			out.Details = append(out.Details, model.SalesOrderDetail{
				ID:           detailIDs.Next(),
				SalesOrderID: so.ID,
				ProductID:    key.ProductID,
				WarehouseID:  key.WarehouseID,
				Quantity:     f.Int64(soMinQty, soMaxQty),
				UnitPrice:    g.price(soMinPrice, soMaxPrice),
			})
		}
		progress.Update(1)
	}
	progress.Done()

	return out
}

func (g *Generator) drawFreePair(m MasterData, used map[model.PairKey]bool) (model.PairKey, bool) {
	for attempt := 0; attempt < maxSlotAttempts; attempt++ {
		key := model.PairKey{
			ProductID:   pickProduct(g.faker, m, g.opts.ParetoVolume),
			WarehouseID: datagen.Choose(g.faker, m.Warehouses).ID,
		}
		if !used[key] {
			return key, true
		}
	}
	return model.PairKey{}, false
}

func (g *Generator) lineCount(avg float64) int {
	return g.faker.Poisson(avg-1) + 1
}

func (g *Generator) status() model.OrderStatus {
	return datagen.ChooseWeighted(g.faker, model.OrderStatuses, statusWeights)
}

func (g *Generator) price(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64(lo, hi)).Round(2)
}
