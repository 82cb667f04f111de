package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/internal/cart"
	"github.com/lineacommerce/backoffice-backend/internal/inventory"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockLedger interface {
	DebitTx(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) (*models.StockMovement, error)
	CreditTx(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) (*models.StockMovement, error)
}

// Service owns order creation and lifecycle. Checkout and cancellation
// each run in a single transaction so stock, ledger entries and order
// rows move together or not at all.
type Service interface {
	CreateFromCart(ctx context.Context, input CheckoutInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input StatusInput) (*models.Order, error)
	RecalculateTotal(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Get(ctx context.Context, input GetInput) (*models.Order, error)
	List(ctx context.Context, input ListInput) (*OrderPage, error)
}

type service struct {
	repo   Repository
	carts  cart.Repository
	ledger stockLedger
	tx     txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, carts cart.Repository, ledger stockLedger, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:   repo,
		carts:  carts,
		ledger: ledger,
		tx:     tx,
	}, nil
}

func (s *service) CreateFromCart(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		carts := s.carts.WithTx(tx)

		userCart, err := carts.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		order := &models.Order{
			ID:       uuid.New(),
			UserID:   input.UserID,
			Status:   enums.OrderStatusPending,
			Total:    decimal.Zero,
			PlacedAt: time.Now().UTC(),
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		orderID = order.ID

		userID := input.UserID
		total := decimal.Zero
		details := make([]models.OrderDetail, 0, len(userCart.Items))
		for _, line := range userCart.Items {
			if _, err := s.ledger.DebitTx(ctx, tx, inventory.MovementInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    fmt.Sprintf("sale - order %s", order.ID),
				UserID:    &userID,
			}); err != nil {
				return err
			}

			unitPrice := line.Product.Price
			details = append(details, models.OrderDetail{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			})
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if err := repo.CreateOrderDetails(ctx, details); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order details")
		}
		if err := repo.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order total")
		}
		if err := carts.DeleteItemsByCart(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrder(ctx, orderID)
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !isStaff(input.ActorRole) && order.UserID != input.ActorUserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		actorID := input.ActorUserID
		for _, detail := range order.Items {
			if _, err := s.ledger.CreditTx(ctx, tx, inventory.MovementInput{
				ProductID: detail.ProductID,
				Quantity:  detail.Quantity,
				Reason:    fmt.Sprintf("cancellation - order %s", order.ID),
				UserID:    &actorID,
			}); err != nil {
				return err
			}
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrder(ctx, input.OrderID)
}

func (s *service) UpdateStatus(ctx context.Context, input StatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use the cancel operation to cancel an order")
	}

	order, err := s.repo.FindOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !canTransition(order.Status, input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	if err := s.repo.UpdateOrderStatus(ctx, order.ID, input.Status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.loadOrder(ctx, order.ID)
}

func (s *service) RecalculateTotal(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	total := decimal.Zero
	for _, detail := range order.Items {
		total = total.Add(detail.UnitPrice.Mul(decimal.NewFromInt(int64(detail.Quantity))))
	}

	if !order.Total.Equal(total) {
		if err := s.repo.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order total")
		}
		order.Total = total
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, input GetInput) (*models.Order, error) {
	order, err := s.loadOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !isStaff(input.ActorRole) && order.UserID != input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderPage, error) {
	cursor, err := pagination.Decode(input.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	userID := input.UserID
	if !isStaff(input.ActorRole) {
		scoped := input.ActorUserID
		userID = &scoped
	}

	orders, err := s.repo.ListOrders(ctx, OrderFilter{
		UserID: userID,
		Status: input.Status,
		Cursor: cursor,
		Limit:  pagination.LimitWithBuffer(input.Params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page, hasMore := pagination.TrimPage(orders, input.Params.Limit)
	next := ""
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &OrderPage{Orders: page, NextCursor: next}, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func isStaff(role enums.UserRole) bool {
	return role == enums.UserRoleAdmin || role == enums.UserRoleManager
}

func canTransition(from, to enums.OrderStatus) bool {
	switch from {
	case enums.OrderStatusPending:
		return to == enums.OrderStatusConfirmed
	case enums.OrderStatusConfirmed:
		return to == enums.OrderStatusShipped
	case enums.OrderStatusShipped:
		return to == enums.OrderStatusDelivered
	default:
		return false
	}
}
