package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// Repository exposes persistence for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error

	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error
}

// productReader is the slice of the catalog the cart needs.
type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
