//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package generator builds a synthetic, internally consistent warehouse
// dataset: master data, purchase and sales orders, a signed movement ledger
// with injected quality defects, and a stock snapshot derived from it.
package generator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Options controls the size and shape of a generated dataset.
type Options struct {
	Categories     int
	Suppliers      int
	Warehouses     int
	Products       int
	PurchaseOrders int
	SalesOrders    int
	StockMovements int

	// PODetailsAvg and SODetailsAvg are the mean line counts per order.
	PODetailsAvg float64
	SODetailsAvg float64

	// Start and End bound the seasonal date sampler.
	Start time.Time
	End   time.Time

	// ParetoSplit is the fraction of products that are hot.
	ParetoSplit float64

	// ParetoVolume is the probability a product draw lands in the hot set.
	ParetoVolume float64

	// DQIssuePercent is the fraction of movements that receive a defect.
	DQIssuePercent float64

	// Now returns the reference time for future-dated defects.
	Now func() time.Time
}

// Generator produces a Dataset from Options and a seeded Faker.
type Generator struct {
	opts  Options
	faker *datagen.Faker
	dates *datagen.SeasonalSampler
	log   zerolog.Logger
}

// Result is a generated dataset plus the bookkeeping collected on the way.
type Result struct {
	Dataset *model.Dataset

	// HotProducts are the product ids favoured by order and movement draws.
	HotProducts []int64

	// Injection counts the defects attempted and actually applied.
	Injection InjectionReport

	// DroppedSalesSlots counts sales order lines abandoned after repeated
	// (product, warehouse) collisions.
	DroppedSalesSlots int
}

// New validates the options and prepares a Generator.
func New(opts Options, faker *datagen.Faker) (*Generator, error) {
	if faker == nil {
		return nil, fmt.Errorf("a random source is required")
	}
	if opts.Categories < 1 || opts.Suppliers < 1 || opts.Products < 1 {
		return nil, fmt.Errorf("categories, suppliers and products must be at least 1")
	}
	if opts.Warehouses < 2 {
		return nil, fmt.Errorf("at least 2 warehouses are required, got %d", opts.Warehouses)
	}
	if opts.PurchaseOrders < 1 || opts.SalesOrders < 1 {
		return nil, fmt.Errorf("purchase and sales order volumes must be at least 1")
	}
	if opts.StockMovements < 0 {
		return nil, fmt.Errorf("stock movement volume must be non-negative")
	}
	dates, err := datagen.NewSeasonalSampler(opts.Start, opts.End)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Generator{
		opts:  opts,
		faker: faker,
		dates: dates,
		log:   logging.With("generator"),
	}, nil
}

// Run generates the full dataset. Stages run in dependency order and all
// draw from the same random source, so a seed reproduces the output.
func (g *Generator) Run() (*Result, error) {
	g.log.Info().
		Uint64("seed", g.faker.Seed()).
		Int("products", g.opts.Products).
		Int("movements", g.opts.StockMovements).
		Msg("Generating dataset")

	master := g.MasterData()
	g.log.Info().
		Int("categories", len(master.Categories)).
		Int("suppliers", len(master.Suppliers)).
		Int("warehouses", len(master.Warehouses)).
		Int("products", len(master.Products)).
		Int("hot_products", len(master.Hot)).
		Msg("Master data generated")

	purchases := g.PurchaseOrders(master)
	sales := g.SalesOrders(master)
	if sales.DroppedSlots > 0 {
		g.log.Warn().
			Int("dropped_slots", sales.DroppedSlots).
			Msg("Sales order lines dropped after repeated collisions")
	}

	movements := g.Movements(master, purchases.Orders, sales.Orders)
	injection := InjectDefects(g.faker, movements, g.opts.DQIssuePercent, g.opts.Now())
	g.log.Info().
		Int("attempted", injection.TotalAttempted()).
		Int("effective", injection.TotalEffective()).
		Msg("Data quality defects injected")

	stock := CalculateStock(g.faker.Derive(stockSalt), master.Products, master.Warehouses, movements)

	ds := &model.Dataset{
		Categories:           master.Categories,
		Suppliers:            master.Suppliers,
		Warehouses:           master.Warehouses,
		Products:             master.Products,
		PurchaseOrders:       purchases.Orders,
		PurchaseOrderDetails: purchases.Details,
		SalesOrders:          sales.Orders,
		SalesOrderDetails:    sales.Details,
		Stock:                stock,
		StockMovements:       movements,
	}

	for _, name := range model.TableNames {
		logging.Debug().Str("table", name).Int("rows", ds.RowCounts()[name]).Msg("Table generated")
	}

	return &Result{
		Dataset:           ds,
		HotProducts:       master.Hot,
		Injection:         injection,
		DroppedSalesSlots: sales.DroppedSlots,
	}, nil
}
