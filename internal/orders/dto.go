package orders

import (
	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// CheckoutInput turns the user's cart into an order.
type CheckoutInput struct {
	UserID uuid.UUID
}

// CancelInput cancels an order and returns its stock.
type CancelInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// StatusInput moves an order along its lifecycle.
type StatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
}

// GetInput loads one order with an ownership check.
type GetInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// ListInput filters the order listing. Non-staff callers are always
// scoped to their own orders.
type ListInput struct {
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
	UserID      *uuid.UUID
	Status      *enums.OrderStatus
	Params      pagination.Params
}

// OrderFilter narrows an order query at the repository level.
type OrderFilter struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
	Cursor *pagination.Cursor
	Limit  int
}

// OrderPage is one page of orders, newest first.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}
