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
	"testing"
)

func TestParseMovementType(t *testing.T) {
	tests := []struct {
		input     string
		want      MovementType
		wantError bool
	}{
		{"IN", MovementIn, false},
		{"OUT", MovementOut, false},
		{"TRANSFER", MovementTransfer, false},
		{"ADJUSTMENT", MovementAdjustment, false},
		{"RETURN", MovementReturn, false},
		{"in", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMovementType(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseMovementType(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMovementTypeIsInbound(t *testing.T) {
	inbound := map[MovementType]bool{
		MovementIn:         true,
		MovementReturn:     true,
		MovementOut:        false,
		MovementTransfer:   false,
		MovementAdjustment: false,
	}
	for mt, want := range inbound {
		if mt.IsInbound() != want {
			t.Errorf("Expected %s.IsInbound() = %v", mt, want)
		}
	}
}

func TestReferenceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		ref      Reference
		wantType ReferenceType
		wantID   bool
	}{
		{"purchase order", PurchaseOrderRef(3), RefPurchaseOrder, true},
		{"sales order", SalesOrderRef(7), RefSalesOrder, true},
		{"transfer", TransferRef(11), RefStockTransfer, true},
		{"manual adjustment", ManualAdjustmentRef(), RefManualAdjustment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ref.Type != tt.wantType {
				t.Errorf("Expected type %q, got %q", tt.wantType, tt.ref.Type)
			}
			if tt.ref.HasID() != tt.wantID {
				t.Errorf("Expected HasID() = %v", tt.wantID)
			}
			if tt.ref.IsInvalid() {
				t.Error("Constructed reference should not be invalid")
			}
		})
	}

	bad := SalesOrderRef(InvalidReferenceID)
	if !bad.IsInvalid() {
		t.Error("Reference with sentinel id should be invalid")
	}
}

func TestParseReferenceType(t *testing.T) {
	if rt, err := ParseReferenceType(""); err != nil || rt != RefNone {
		t.Errorf("Expected empty reference type to parse as none, got %q, %v", rt, err)
	}
	if _, err := ParseReferenceType("INVOICE"); err == nil {
		t.Error("Expected error for unknown reference type")
	}
}

func TestDatasetWithMovements(t *testing.T) {
	ds := &Dataset{
		Products:       []Product{{ID: 1}},
		StockMovements: []StockMovement{{ID: 1}, {ID: 2}},
	}
	filtered := ds.WithMovements([]StockMovement{{ID: 2}})

	if len(ds.StockMovements) != 2 {
		t.Errorf("Original dataset should be unchanged, got %d movements", len(ds.StockMovements))
	}
	if len(filtered.StockMovements) != 1 {
		t.Errorf("Expected 1 movement, got %d", len(filtered.StockMovements))
	}
	if filtered.RowCounts()[TableProducts] != 1 {
		t.Error("Expected products to be carried over")
	}
}
