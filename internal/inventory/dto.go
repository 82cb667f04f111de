package inventory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// MovementInput captures a single debit or credit against a product.
type MovementInput struct {
	ProductID uuid.UUID
	Quantity  int
	Reason    string
	UserID    *uuid.UUID
}

// AdjustInput overwrites a product's stock to an absolute quantity.
type AdjustInput struct {
	ProductID   uuid.UUID
	NewQuantity int
	Reason      string
	UserID      *uuid.UUID
}

// MovementFilter narrows a ledger query at the repository level.
type MovementFilter struct {
	ProductID *uuid.UUID
	Cursor    *pagination.Cursor
	Limit     int
}

// ListMovementsInput filters the ledger history.
type ListMovementsInput struct {
	ProductID *uuid.UUID
	Params    pagination.Params
}

// MovementPage is one page of ledger entries, newest first.
type MovementPage struct {
	Movements  []models.StockMovement
	NextCursor string
}

// InsufficientStockError reports a debit that would push stock below zero.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
