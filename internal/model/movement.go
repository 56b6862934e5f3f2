//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package model

import (
	"fmt"
	"time"
)

// InvalidReferenceID is the reserved sentinel marking a dangling reference.
// It is never a legitimate order or movement id.
const InvalidReferenceID int64 = 9999999

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// MovementTypes lists all movement types in a stable order.
var MovementTypes = []MovementType{
	MovementIn,
	MovementOut,
	MovementTransfer,
	MovementAdjustment,
	MovementReturn,
}

// ParseMovementType converts a stored type string into a MovementType.
func ParseMovementType(s string) (MovementType, error) {
	for _, mt := range MovementTypes {
		if string(mt) == s {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown movement type: %q", s)
}

// IsInbound reports whether the type must carry a non-negative quantity.
func (t MovementType) IsInbound() bool {
	return t == MovementIn || t == MovementReturn
}

// ReferenceType names the entity a movement points at.
type ReferenceType string

const (
	RefNone             ReferenceType = ""
	RefPurchaseOrder    ReferenceType = "PURCHASE_ORDER"
	RefSalesOrder       ReferenceType = "SALES_ORDER"
	RefStockTransfer    ReferenceType = "STOCK_TRANSFER"
	RefManualAdjustment ReferenceType = "MANUAL_ADJUSTMENT"
)

// ParseReferenceType converts a stored reference type; empty means none.
func ParseReferenceType(s string) (ReferenceType, error) {
	switch ReferenceType(s) {
	case RefNone, RefPurchaseOrder, RefSalesOrder, RefStockTransfer, RefManualAdjustment:
		return ReferenceType(s), nil
	}
	return "", fmt.Errorf("unknown reference type: %q", s)
}

// Reference is the tagged pointer from a movement to the record that caused
// it. ID is zero when the variant carries no id (manual adjustments).
type Reference struct {
	Type ReferenceType
	ID   int64
}

// PurchaseOrderRef references a purchase order.
func PurchaseOrderRef(id int64) Reference {
	return Reference{Type: RefPurchaseOrder, ID: id}
}

// SalesOrderRef references a sales order.
func SalesOrderRef(id int64) Reference {
	return Reference{Type: RefSalesOrder, ID: id}
}

// TransferRef references the outbound leg of a transfer pair.
func TransferRef(outboundMovementID int64) Reference {
	return Reference{Type: RefStockTransfer, ID: outboundMovementID}
}

// ManualAdjustmentRef references a manual adjustment, which has no id.
func ManualAdjustmentRef() Reference {
	return Reference{Type: RefManualAdjustment}
}

// HasID reports whether the reference carries an id.
func (r Reference) HasID() bool {
	return r.ID != 0
}

// IsInvalid reports whether the reference carries the dangling sentinel.
func (r Reference) IsInvalid() bool {
	return r.ID == InvalidReferenceID
}

// StockMovement is one entry of the stock ledger. Quantity is signed:
// positive adds stock, negative removes it.
type StockMovement struct {
	ID           int64
	ProductID    int64
	WarehouseID  int64
	Type         MovementType
	Quantity     int64
	Reference    Reference
	MovementDate time.Time
	Notes        string
}

// Key returns the (product, warehouse) pair of the movement.
func (m StockMovement) Key() PairKey {
	return PairKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
}
