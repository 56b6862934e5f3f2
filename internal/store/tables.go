//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store persists and reloads warehouse datasets: CSV directories,
// a transactional SQL script, and direct loading into PostgreSQL.
package store

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// dateValue is a calendar date, rendered without a time component.
type dateValue time.Time

// Table describes how one dataset table maps to columns.
type Table struct {
	Name string

	// IDColumn is the serial primary key, empty when the table has none.
	IDColumn string

	Columns []string

	rows   func(ds *model.Dataset) [][]any
	decode func(ds *model.Dataset, r *rowReader)
}

// Sequence returns the name of the serial sequence backing IDColumn.
func (t Table) Sequence() string {
	if t.IDColumn == "" {
		return ""
	}
	return t.Name + "_" + t.IDColumn + "_seq"
}

// Rows returns the table's rows from ds as column-ordered values.
func (t Table) Rows(ds *model.Dataset) [][]any {
	return t.rows(ds)
}

// Tables lists every table in foreign-key load order.
var Tables = []Table{
	{
		Name:     model.TableCategories,
		IDColumn: "category_id",
		Columns:  []string{"category_id", "name", "description"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.Categories))
			for i, c := range ds.Categories {
				out[i] = []any{c.ID, c.Name, c.Description}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.Categories = append(ds.Categories, model.Category{
				ID:          r.int("category_id"),
				Name:        r.str("name"),
				Description: r.str("description"),
			})
		},
	},
	{
		Name:     model.TableSuppliers,
		IDColumn: "supplier_id",
		Columns:  []string{"supplier_id", "name", "contact_person", "email", "phone", "address"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.Suppliers))
			for i, s := range ds.Suppliers {
				out[i] = []any{s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.Suppliers = append(ds.Suppliers, model.Supplier{
				ID:            r.int("supplier_id"),
				Name:          r.str("name"),
				ContactPerson: r.str("contact_person"),
				Email:         r.str("email"),
				Phone:         r.str("phone"),
				Address:       r.str("address"),
			})
		},
	},
	{
		Name:     model.TableWarehouses,
		IDColumn: "warehouse_id",
		Columns:  []string{"warehouse_id", "name", "location_code", "address"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.Warehouses))
			for i, w := range ds.Warehouses {
				out[i] = []any{w.ID, w.Name, w.LocationCode, w.Address}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.Warehouses = append(ds.Warehouses, model.Warehouse{
				ID:           r.int("warehouse_id"),
				Name:         r.str("name"),
				LocationCode: r.str("location_code"),
				Address:      r.str("address"),
			})
		},
	},
	{
		Name:     model.TableProducts,
		IDColumn: "product_id",
		Columns:  []string{"product_id", "sku", "name", "description", "category_id", "supplier_id"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.Products))
			for i, p := range ds.Products {
				out[i] = []any{p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.Products = append(ds.Products, model.Product{
				ID:          r.int("product_id"),
				SKU:         r.str("sku"),
				Name:        r.str("name"),
				Description: r.str("description"),
				CategoryID:  r.int("category_id"),
				SupplierID:  r.int("supplier_id"),
			})
		},
	},
	{
		Name:     model.TablePurchaseOrders,
		IDColumn: "po_id",
		Columns:  []string{"po_id", "supplier_id", "warehouse_id", "order_date", "status"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.PurchaseOrders))
			for i, po := range ds.PurchaseOrders {
				out[i] = []any{po.ID, po.SupplierID, po.WarehouseID, dateValue(po.OrderDate), string(po.Status)}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.PurchaseOrders = append(ds.PurchaseOrders, model.PurchaseOrder{
				ID:          r.int("po_id"),
				SupplierID:  r.int("supplier_id"),
				WarehouseID: r.int("warehouse_id"),
				OrderDate:   r.timestamp("order_date"),
				Status:      r.status("status"),
			})
		},
	},
	{
		Name:     model.TablePurchaseOrderDetails,
		IDColumn: "po_detail_id",
		Columns:  []string{"po_detail_id", "po_id", "product_id", "quantity", "unit_price"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.PurchaseOrderDetails))
			for i, d := range ds.PurchaseOrderDetails {
				out[i] = []any{d.ID, d.PurchaseOrderID, d.ProductID, d.Quantity, d.UnitPrice}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.PurchaseOrderDetails = append(ds.PurchaseOrderDetails, model.PurchaseOrderDetail{
				ID:              r.int("po_detail_id"),
				PurchaseOrderID: r.int("po_id"),
				ProductID:       r.int("product_id"),
				Quantity:        r.int("quantity"),
				UnitPrice:       r.decimal("unit_price"),
			})
		},
	},
	{
		Name:     model.TableSalesOrders,
		IDColumn: "so_id",
		Columns:  []string{"so_id", "customer_name", "order_date", "status", "shipping_address"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.SalesOrders))
			for i, so := range ds.SalesOrders {
				out[i] = []any{so.ID, so.CustomerName, dateValue(so.OrderDate), string(so.Status), so.ShippingAddress}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.SalesOrders = append(ds.SalesOrders, model.SalesOrder{
				ID:              r.int("so_id"),
				CustomerName:    r.str("customer_name"),
				OrderDate:       r.timestamp("order_date"),
				Status:          r.status("status"),
				ShippingAddress: r.str("shipping_address"),
			})
		},
	},
	{
		Name:     model.TableSalesOrderDetails,
		IDColumn: "so_detail_id",
		Columns:  []string{"so_detail_id", "so_id", "product_id", "warehouse_id", "quantity", "unit_price"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.SalesOrderDetails))
			for i, d := range ds.SalesOrderDetails {
				out[i] = []any{d.ID, d.SalesOrderID, d.ProductID, d.WarehouseID, d.Quantity, d.UnitPrice}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.SalesOrderDetails = append(ds.SalesOrderDetails, model.SalesOrderDetail{
				ID:           r.int("so_detail_id"),
				SalesOrderID: r.int("so_id"),
				ProductID:    r.int("product_id"),
				WarehouseID:  r.int("warehouse_id"),
				Quantity:     r.int("quantity"),
				UnitPrice:    r.decimal("unit_price"),
			})
		},
	},
	{
		Name:    model.TableStock,
		Columns: []string{"product_id", "warehouse_id", "quantity_on_hand", "reorder_point", "safety_stock"},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.Stock))
			for i, s := range ds.Stock {
				out[i] = []any{s.ProductID, s.WarehouseID, s.QuantityOnHand, s.ReorderPoint, s.SafetyStock}
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.Stock = append(ds.Stock, model.Stock{
				ProductID:      r.int("product_id"),
				WarehouseID:    r.int("warehouse_id"),
				QuantityOnHand: r.int("quantity_on_hand"),
				ReorderPoint:   r.int("reorder_point"),
				SafetyStock:    r.int("safety_stock"),
			})
		},
	},
	{
		Name:     model.TableStockMovements,
		IDColumn: "movement_id",
		Columns: []string{
			"movement_id", "product_id", "warehouse_id", "movement_type", "quantity",
			"reference_type", "reference_id", "movement_date", "notes",
		},
		rows: func(ds *model.Dataset) [][]any {
			out := make([][]any, len(ds.StockMovements))
			for i, m := range ds.StockMovements {
				out[i] = MovementValues(m)
			}
			return out
		},
		decode: func(ds *model.Dataset, r *rowReader) {
			ds.StockMovements = append(ds.StockMovements, model.StockMovement{
				ID:          r.int("movement_id"),
				ProductID:   r.int("product_id"),
				WarehouseID: r.int("warehouse_id"),
				Type:        r.movementType("movement_type"),
				Quantity:    r.int("quantity"),
				Reference: model.Reference{
					Type: r.referenceType("reference_type"),
					ID:   r.nullInt("reference_id"),
				},
				MovementDate: r.timestamp("movement_date"),
				Notes:        r.str("notes"),
			})
		},
	},
}

// MovementValues flattens a movement into stock_movements column order,
// with NULLs for an absent reference.
func MovementValues(m model.StockMovement) []any {
	var refType, refID any
	if m.Reference.Type != model.RefNone {
		refType = string(m.Reference.Type)
	}
	if m.Reference.HasID() {
		refID = m.Reference.ID
	}
	return []any{
		m.ID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity,
		refType, refID, m.MovementDate, m.Notes,
	}
}

// TableByName returns the table description for name.
func TableByName(name string) (Table, error) {
	for _, t := range Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("unknown table: %s", name)
}
