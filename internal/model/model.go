//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model defines the warehouse entities shared by the generator,
// the extract stage and the analytics transforms.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Table names in foreign-key dependency order.
const (
	TableCategories           = "categories"
	TableSuppliers            = "suppliers"
	TableWarehouses           = "warehouses"
	TableProducts             = "products"
	TablePurchaseOrders       = "purchase_orders"
	TablePurchaseOrderDetails = "purchase_order_details"
	TableSalesOrders          = "sales_orders"
	TableSalesOrderDetails    = "sales_order_details"
	TableStock                = "stock"
	TableStockMovements       = "stock_movements"
)

// TableNames lists every generated table in load order.
var TableNames = []string{
	TableCategories,
	TableSuppliers,
	TableWarehouses,
	TableProducts,
	TablePurchaseOrders,
	TablePurchaseOrderDetails,
	TableSalesOrders,
	TableSalesOrderDetails,
	TableStock,
	TableStockMovements,
}

// OrderStatus is the lifecycle state of a purchase or sales order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists all statuses in a stable order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
}

// ParseOrderStatus converts a stored status string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// Category is a product category.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Supplier is a vendor that fulfils purchase orders.
type Supplier struct {
	ID            int64
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// Warehouse is a stocking location.
type Warehouse struct {
	ID           int64
	Name         string
	LocationCode string
	Address      string
}

// Product is a sellable item.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	CategoryID  int64
	SupplierID  int64
}

// PurchaseOrder is an inbound order placed with a supplier.
type PurchaseOrder struct {
	ID          int64
	SupplierID  int64
	WarehouseID int64
	OrderDate   time.Time
	Status      OrderStatus
}

// PurchaseOrderDetail is one line of a purchase order.
type PurchaseOrderDetail struct {
	ID              int64
	PurchaseOrderID int64
	ProductID       int64
	Quantity        int64
	UnitPrice       decimal.Decimal
}

// SalesOrder is an outbound customer order.
type SalesOrder struct {
	ID              int64
	CustomerName    string
	OrderDate       time.Time
	Status          OrderStatus
	ShippingAddress string
}

// SalesOrderDetail is one line of a sales order, fulfilled from a warehouse.
type SalesOrderDetail struct {
	ID           int64
	SalesOrderID int64
	ProductID    int64
	WarehouseID  int64
	Quantity     int64
	UnitPrice    decimal.Decimal
}

// Stock is the on-hand snapshot of one product in one warehouse.
type Stock struct {
	ProductID      int64
	WarehouseID    int64
	QuantityOnHand int64
	ReorderPoint   int64
	SafetyStock    int64
}

// PairKey identifies a (product, warehouse) pair.
type PairKey struct {
	ProductID   int64
	WarehouseID int64
}

// Key returns the pair key of the stock row.
func (s Stock) Key() PairKey {
	return PairKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// Dataset holds the full generated or extracted table set.
type Dataset struct {
	Categories           []Category
	Suppliers            []Supplier
	Warehouses           []Warehouse
	Products             []Product
	PurchaseOrders       []PurchaseOrder
	PurchaseOrderDetails []PurchaseOrderDetail
	SalesOrders          []SalesOrder
	SalesOrderDetails    []SalesOrderDetail
	Stock                []Stock
	StockMovements       []StockMovement
}

// RowCounts returns the number of rows per table.
func (d *Dataset) RowCounts() map[string]int {
	return map[string]int{
		TableCategories:           len(d.Categories),
		TableSuppliers:            len(d.Suppliers),
		TableWarehouses:           len(d.Warehouses),
		TableProducts:             len(d.Products),
		TablePurchaseOrders:       len(d.PurchaseOrders),
		TablePurchaseOrderDetails: len(d.PurchaseOrderDetails),
		TableSalesOrders:          len(d.SalesOrders),
		TableSalesOrderDetails:    len(d.SalesOrderDetails),
		TableStock:                len(d.Stock),
		TableStockMovements:       len(d.StockMovements),
	}
}

// WithMovements returns a shallow copy of the dataset whose movement ledger
// is replaced by movements.
func (d *Dataset) WithMovements(movements []StockMovement) *Dataset {
	out := *d
	out.StockMovements = movements
	return &out
}
