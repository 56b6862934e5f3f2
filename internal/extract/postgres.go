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
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Queryer is satisfied by *pgxpool.Pool and *pgx.Conn.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the tables from a database loaded by the generator.
// Numeric columns require the decimal type registration done by db.Connect.
type PostgresSource struct {
	DB Queryer
}

// Name returns the source name.
func (s *PostgresSource) Name() string {
	return "postgres"
}

const (
	selectCategories = `SELECT category_id, name, COALESCE(description, '')
        FROM categories ORDER BY category_id`
	selectSuppliers = `SELECT supplier_id, name, COALESCE(contact_person, ''), COALESCE(email, ''),
            COALESCE(phone, ''), COALESCE(address, '')
        FROM suppliers ORDER BY supplier_id`
	selectWarehouses = `SELECT warehouse_id, name, COALESCE(location_code, ''), COALESCE(address, '')
        FROM warehouses ORDER BY warehouse_id`
	selectProducts = `SELECT product_id, sku, name, COALESCE(description, ''), category_id, supplier_id
        FROM products ORDER BY product_id`
	selectPurchaseOrders = `SELECT po_id, supplier_id, warehouse_id, order_date::timestamp, status
        FROM purchase_orders ORDER BY po_id`
	selectPurchaseOrderDetails = `SELECT po_detail_id, po_id, product_id, quantity, unit_price
        FROM purchase_order_details ORDER BY po_detail_id`
	selectSalesOrders = `SELECT so_id, COALESCE(customer_name, ''), order_date::timestamp, status,
            COALESCE(shipping_address, '')
        FROM sales_orders ORDER BY so_id`
	selectSalesOrderDetails = `SELECT so_detail_id, so_id, product_id, warehouse_id, quantity, unit_price
        FROM sales_order_details ORDER BY so_detail_id`
	selectStock = `SELECT product_id, warehouse_id, quantity_on_hand,
            COALESCE(reorder_point, 0), COALESCE(safety_stock, 0)
        FROM stock ORDER BY product_id, warehouse_id`
	selectMovements = `SELECT movement_id, product_id, warehouse_id, movement_type, quantity,
            reference_type, reference_id, movement_date, COALESCE(notes, '')
        FROM stock_movements`
)

// Extract reads every table. Incremental requests filter the ledger in the
// query; the reference tables are always read in full.
func (s *PostgresSource) Extract(ctx context.Context, req Request) (*model.Dataset, error) {
	ds := &model.Dataset{}
	var err error

	if ds.Categories, err = queryStructs[model.Category](ctx, s.DB, selectCategories); err != nil {
		return nil, tableError(model.TableCategories, err)
	}
	if ds.Suppliers, err = queryStructs[model.Supplier](ctx, s.DB, selectSuppliers); err != nil {
		return nil, tableError(model.TableSuppliers, err)
	}
	if ds.Warehouses, err = queryStructs[model.Warehouse](ctx, s.DB, selectWarehouses); err != nil {
		return nil, tableError(model.TableWarehouses, err)
	}
	if ds.Products, err = queryStructs[model.Product](ctx, s.DB, selectProducts); err != nil {
		return nil, tableError(model.TableProducts, err)
	}
	if ds.PurchaseOrders, err = queryStructs[model.PurchaseOrder](ctx, s.DB, selectPurchaseOrders); err != nil {
		return nil, tableError(model.TablePurchaseOrders, err)
	}
	if ds.PurchaseOrderDetails, err = queryStructs[model.PurchaseOrderDetail](ctx, s.DB, selectPurchaseOrderDetails); err != nil {
		return nil, tableError(model.TablePurchaseOrderDetails, err)
	}
	if ds.SalesOrders, err = queryStructs[model.SalesOrder](ctx, s.DB, selectSalesOrders); err != nil {
		return nil, tableError(model.TableSalesOrders, err)
	}
	if ds.SalesOrderDetails, err = queryStructs[model.SalesOrderDetail](ctx, s.DB, selectSalesOrderDetails); err != nil {
		return nil, tableError(model.TableSalesOrderDetails, err)
	}
	if ds.Stock, err = queryStructs[model.Stock](ctx, s.DB, selectStock); err != nil {
		return nil, tableError(model.TableStock, err)
	}

	query, args := selectMovements+" ORDER BY movement_id", []any(nil)
	if req.Incremental() {
		query = selectMovements + " WHERE movement_date > $1 ORDER BY movement_id"
		args = append(args, req.Since)
	}
	if ds.StockMovements, err = queryMovements(ctx, s.DB, query, args...); err != nil {
		return nil, tableError(model.TableStockMovements, err)
	}

	for _, name := range model.TableNames {
		logging.Debug().
			Str("table", name).
			Int("rows", ds.RowCounts()[name]).
			Msg("Extracted table")
	}
	return ds, nil
}

func tableError(table string, err error) error {
	return fmt.Errorf("failed to read %s: %w", table, err)
}

// queryStructs scans each row positionally into T.
func queryStructs[T any](ctx context.Context, db Queryer, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}

func queryMovements(ctx context.Context, db Queryer, query string, args ...any) ([]model.StockMovement, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanMovement)
}

func scanMovement(row pgx.CollectableRow) (model.StockMovement, error) {
	var (
		m       model.StockMovement
		mType   string
		refType *string
		refID   *int64
	)
	err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &mType, &m.Quantity,
		&refType, &refID, &m.MovementDate, &m.Notes)
	if err != nil {
		return m, err
	}
	if m.Type, err = model.ParseMovementType(mType); err != nil {
		return m, err
	}
	if refType != nil {
		if m.Reference.Type, err = model.ParseReferenceType(*refType); err != nil {
			return m, err
		}
	}
	if refID != nil {
		m.Reference.ID = *refID
	}
	m.MovementDate = m.MovementDate.UTC()
	return m, nil
}
