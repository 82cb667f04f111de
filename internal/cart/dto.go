package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// AddLineInput adds (or merges) a product line into the user's cart.
type AddLineInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// UpdateLineInput replaces the quantity on an existing cart line.
type UpdateLineInput struct {
	UserID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int
}

// View is a cart plus its derived total.
type View struct {
	Cart  *models.Cart
	Total decimal.Decimal
}

// Total sums quantity times current product price over the cart lines.
func computeTotal(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
