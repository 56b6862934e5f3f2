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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Categories:     4,
		Suppliers:      6,
		Warehouses:     3,
		Products:       40,
		PurchaseOrders: 30,
		SalesOrders:    60,
		StockMovements: 800,
		PODetailsAvg:   4,
		SODetailsAvg:   3,
		Start:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		ParetoSplit:    0.2,
		ParetoVolume:   0.8,
		DQIssuePercent: 0.05,
		Now:            func() time.Time { return fixedNow },
	}
}

func newTestGenerator(t *testing.T, opts Options, seed uint64) *Generator {
	t.Helper()
	g, err := New(opts, datagen.NewFakerWithSeed(seed))
	require.NoError(t, err)
	return g
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"one warehouse", func(o *Options) { o.Warehouses = 1 }},
		{"no products", func(o *Options) { o.Products = 0 }},
		{"no sales orders", func(o *Options) { o.SalesOrders = 0 }},
		{"inverted range", func(o *Options) { o.End = o.Start.AddDate(0, 0, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			_, err := New(opts, datagen.NewFakerWithSeed(1))
			assert.Error(t, err)
		})
	}

	_, err := New(testOptions(), nil)
	assert.Error(t, err, "nil faker should be rejected")
}

func TestMasterData(t *testing.T) {
	opts := testOptions()
	g := newTestGenerator(t, opts, 1)
	m := g.MasterData()

	require.Len(t, m.Categories, opts.Categories)
	require.Len(t, m.Suppliers, opts.Suppliers)
	require.Len(t, m.Warehouses, opts.Warehouses)
	require.Len(t, m.Products, opts.Products)

	for i, c := range m.Categories {
		assert.Equal(t, int64(i+1), c.ID)
	}
	for i, w := range m.Warehouses {
		assert.Equal(t, int64(i+1), w.ID)
		assert.NotEmpty(t, w.LocationCode)
	}

	skus := make(map[string]bool)
	for i, p := range m.Products {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Len(t, p.SKU, 13)
		assert.False(t, skus[p.SKU], "duplicate SKU %s", p.SKU)
		skus[p.SKU] = true
		assert.Equal(t, EANCheckDigit(p.SKU[:12]), int(p.SKU[12]-'0'))
		assert.True(t, p.CategoryID >= 1 && p.CategoryID <= int64(opts.Categories))
		assert.True(t, p.SupplierID >= 1 && p.SupplierID <= int64(opts.Suppliers))
	}

	assert.Len(t, m.Hot, int(float64(opts.Products)*opts.ParetoSplit))
	assert.Len(t, m.Cold, opts.Products-len(m.Hot))
	hot := make(map[int64]bool)
	for _, id := range m.Hot {
		assert.False(t, hot[id], "hot set must not repeat ids")
		hot[id] = true
	}
	for _, id := range m.Cold {
		assert.False(t, hot[id], "cold set must not overlap hot set")
	}
}

func TestEANCheckDigit(t *testing.T) {
	// 4006381333931 is a well-known valid EAN-13.
	assert.Equal(t, 1, EANCheckDigit("400638133393"))
	assert.Equal(t, 0, EANCheckDigit("000000000000"))
}

func TestUniqueSetFallsBackToSuffix(t *testing.T) {
	u := newUniqueSet()
	constant := func() string { return "Widgets" }
	assert.Equal(t, "Widgets", u.draw(constant))
	assert.Equal(t, "Widgets 2", u.draw(constant))
	assert.Equal(t, "Widgets 3", u.draw(constant))
}

func TestPurchaseOrders(t *testing.T) {
	opts := testOptions()
	g := newTestGenerator(t, opts, 2)
	m := g.MasterData()
	pos := g.PurchaseOrders(m)

	require.Len(t, pos.Orders, opts.PurchaseOrders)
	lines := make(map[int64]map[int64]bool)
	for i, d := range pos.Details {
		assert.Equal(t, int64(i+1), d.ID, "detail ids must be sequential")
		assert.True(t, d.Quantity >= 50 && d.Quantity <= 500)
		assert.True(t, d.UnitPrice.GreaterThanOrEqual(decimalFromInt(5000)))
		assert.True(t, d.UnitPrice.LessThanOrEqual(decimalFromInt(500000)))
		assert.LessOrEqual(t, -d.UnitPrice.Exponent(), int32(2), "price must have at most 2 decimals")
		if lines[d.PurchaseOrderID] == nil {
			lines[d.PurchaseOrderID] = make(map[int64]bool)
		}
		assert.False(t, lines[d.PurchaseOrderID][d.ProductID], "product repeated within a purchase order")
		lines[d.PurchaseOrderID][d.ProductID] = true
	}
	for _, po := range pos.Orders {
		assert.NotEmpty(t, lines[po.ID], "every purchase order has at least one line")
		assert.LessOrEqual(t, len(lines[po.ID]), opts.Products)
	}
}

func TestPurchaseOrderLinesCappedByProducts(t *testing.T) {
	opts := testOptions()
	opts.Products = 2
	opts.PODetailsAvg = 30
	g := newTestGenerator(t, opts, 3)
	pos := g.PurchaseOrders(g.MasterData())

	count := make(map[int64]int)
	for _, d := range pos.Details {
		count[d.PurchaseOrderID]++
	}
	for id, n := range count {
		assert.LessOrEqual(t, n, 2, "purchase order %d exceeds product count", id)
	}
}

func TestSalesOrders(t *testing.T) {
	opts := testOptions()
	g := newTestGenerator(t, opts, 4)
	m := g.MasterData()
	sos := g.SalesOrders(m)

	require.Len(t, sos.Orders, opts.SalesOrders)
	pairs := make(map[int64]map[model.PairKey]bool)
	for _, d := range sos.Details {
		assert.True(t, d.Quantity >= 1 && d.Quantity <= 10)
		assert.True(t, d.UnitPrice.GreaterThanOrEqual(decimalFromInt(10000)))
		assert.True(t, d.UnitPrice.LessThanOrEqual(decimalFromInt(1000000)))
		key := model.PairKey{ProductID: d.ProductID, WarehouseID: d.WarehouseID}
		if pairs[d.SalesOrderID] == nil {
			pairs[d.SalesOrderID] = make(map[model.PairKey]bool)
		}
		assert.False(t, pairs[d.SalesOrderID][key], "(product, warehouse) repeated within a sales order")
		pairs[d.SalesOrderID][key] = true
	}
}

func TestSalesOrdersDropSlotsWhenPairsExhausted(t *testing.T) {
	opts := testOptions()
	opts.Products = 1
	opts.Warehouses = 2
	opts.SODetailsAvg = 20
	opts.SalesOrders = 20
	g := newTestGenerator(t, opts, 5)
	sos := g.SalesOrders(g.MasterData())

	count := make(map[int64]int)
	for _, d := range sos.Details {
		count[d.SalesOrderID]++
	}
	for id, n := range count {
		assert.LessOrEqual(t, n, 2, "sales order %d exceeds product x warehouse pairs", id)
	}
}

func TestMovements(t *testing.T) {
	opts := testOptions()
	g := newTestGenerator(t, opts, 6)
	m := g.MasterData()
	pos := g.PurchaseOrders(m)
	sos := g.SalesOrders(m)
	mvs := g.Movements(m, pos.Orders, sos.Orders)

	require.GreaterOrEqual(t, len(mvs), opts.StockMovements)

	byID := make(map[int64]model.StockMovement)
	for i, mv := range mvs {
		assert.Equal(t, int64(i+1), mv.ID, "movement ids must be strictly increasing")
		byID[mv.ID] = mv

		switch mv.Type {
		case model.MovementIn:
			assert.True(t, mv.Quantity >= 50 && mv.Quantity <= 500)
			assert.Equal(t, model.RefPurchaseOrder, mv.Reference.Type)
			assert.True(t, mv.Reference.ID >= 1 && mv.Reference.ID <= int64(opts.PurchaseOrders))
		case model.MovementOut:
			assert.True(t, mv.Quantity <= -1 && mv.Quantity >= -10)
			assert.Equal(t, model.RefSalesOrder, mv.Reference.Type)
		case model.MovementReturn:
			assert.True(t, mv.Quantity >= 1 && mv.Quantity <= 3)
			assert.Equal(t, model.RefSalesOrder, mv.Reference.Type)
		case model.MovementAdjustment:
			assert.True(t, mv.Quantity >= -5 && mv.Quantity <= 5 && mv.Quantity != 0)
			assert.Equal(t, model.RefManualAdjustment, mv.Reference.Type)
			assert.False(t, mv.Reference.HasID())
		case model.MovementTransfer:
			assert.Equal(t, model.RefStockTransfer, mv.Reference.Type)
		}
	}

	transfers := 0
	for _, mv := range mvs {
		if mv.Type != model.MovementTransfer || mv.Quantity >= 0 {
			continue
		}
		transfers++
		in, ok := byID[mv.ID+1]
		require.True(t, ok, "transfer out leg %d has no successor", mv.ID)
		assert.Equal(t, model.MovementTransfer, in.Type)
		assert.Equal(t, -mv.Quantity, in.Quantity)
		assert.Equal(t, mv.ProductID, in.ProductID)
		assert.NotEqual(t, mv.WarehouseID, in.WarehouseID)
		assert.Equal(t, mv.ID, mv.Reference.ID)
		assert.Equal(t, mv.ID, in.Reference.ID)
		assert.Equal(t, mv.MovementDate.Add(30*time.Minute), in.MovementDate)
		assert.Equal(t, noteTransferOut, mv.Notes)
		assert.Equal(t, noteTransferIn, in.Notes)
		assert.True(t, -mv.Quantity >= 1 && -mv.Quantity <= 50)
	}
	assert.Greater(t, transfers, 0, "expected at least one transfer in 800 movements")
	assert.Equal(t, opts.StockMovements+transfers, len(mvs), "each transfer draw adds one extra row")
}

func TestMovementsParetoSkew(t *testing.T) {
	opts := testOptions()
	opts.StockMovements = 4000
	g := newTestGenerator(t, opts, 7)
	m := g.MasterData()
	mvs := g.Movements(m, g.PurchaseOrders(m).Orders, g.SalesOrders(m).Orders)

	hot := make(map[int64]bool)
	for _, id := range m.Hot {
		hot[id] = true
	}
	hotRows := 0
	for _, mv := range mvs {
		if hot[mv.ProductID] {
			hotRows++
		}
	}
	share := float64(hotRows) / float64(len(mvs))
	assert.InDelta(t, opts.ParetoVolume, share, 0.05)
}

func TestRunDeterministic(t *testing.T) {
	r1, err := newTestGenerator(t, testOptions(), 42).Run()
	require.NoError(t, err)
	r2, err := newTestGenerator(t, testOptions(), 42).Run()
	require.NoError(t, err)

	assert.Equal(t, r1.Dataset, r2.Dataset)
	assert.Equal(t, r1.HotProducts, r2.HotProducts)
	assert.Equal(t, r1.Injection, r2.Injection)
}

func TestRunReferentialIntegrity(t *testing.T) {
	res, err := newTestGenerator(t, testOptions(), 9).Run()
	require.NoError(t, err)
	ds := res.Dataset

	categories := idSet(len(ds.Categories))
	suppliers := idSet(len(ds.Suppliers))
	warehouses := idSet(len(ds.Warehouses))
	products := idSet(len(ds.Products))
	pos := idSet(len(ds.PurchaseOrders))
	sos := idSet(len(ds.SalesOrders))

	for _, p := range ds.Products {
		assert.True(t, categories[p.CategoryID])
		assert.True(t, suppliers[p.SupplierID])
	}
	for _, po := range ds.PurchaseOrders {
		assert.True(t, suppliers[po.SupplierID])
		assert.True(t, warehouses[po.WarehouseID])
	}
	for _, d := range ds.PurchaseOrderDetails {
		assert.True(t, pos[d.PurchaseOrderID])
		assert.True(t, products[d.ProductID])
	}
	for _, d := range ds.SalesOrderDetails {
		assert.True(t, sos[d.SalesOrderID])
		assert.True(t, products[d.ProductID])
		assert.True(t, warehouses[d.WarehouseID])
	}
	for _, mv := range ds.StockMovements {
		assert.True(t, products[mv.ProductID])
		assert.True(t, warehouses[mv.WarehouseID])
	}
	assert.Len(t, ds.Stock, len(ds.Products)*len(ds.Warehouses))
}

func idSet(n int) map[int64]bool {
	s := make(map[int64]bool, n)
	for i := 1; i <= n; i++ {
		s[int64(i)] = true
	}
	return s
}
