package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// Repository exposes the persistence surface for the stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// DebitStock atomically subtracts qty from the product's stock.
	// It fails with *InsufficientStockError when the guard would push
	// the stock below zero.
	DebitStock(ctx context.Context, productID uuid.UUID, qty int) (newStock int, err error)

	// CreditStock atomically adds qty to the product's stock.
	CreditStock(ctx context.Context, productID uuid.UUID, qty int) (newStock int, err error)

	// SetStock overwrites the product's stock and returns the prior value.
	SetStock(ctx context.Context, productID uuid.UUID, qty int) (previousStock int, err error)

	GetStock(ctx context.Context, productID uuid.UUID) (int, error)

	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, filter MovementFilter) ([]models.StockMovement, error)
}
