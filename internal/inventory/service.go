package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/metrics"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service maintains the stock ledger. Every stock change goes through
// here so each one leaves a movement row behind.
type Service interface {
	Debit(ctx context.Context, input MovementInput) (*models.StockMovement, error)
	Credit(ctx context.Context, input MovementInput) (*models.StockMovement, error)
	Adjust(ctx context.Context, input AdjustInput) (*models.StockMovement, error)
	ListMovements(ctx context.Context, input ListMovementsInput) (*MovementPage, error)

	// DebitTx and CreditTx run inside a caller-owned transaction so
	// order checkout and cancellation stay atomic.
	DebitTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockMovement, error)
	CreditTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockMovement, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.StockMetrics
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, stockMetrics *metrics.StockMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		metrics: stockMetrics,
	}, nil
}

func (s *service) Debit(ctx context.Context, input MovementInput) (*models.StockMovement, error) {
	if err := validateMovementInput(input, true); err != nil {
		return nil, err
	}

	var movement *models.StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		movement, txErr = s.DebitTx(ctx, tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) Credit(ctx context.Context, input MovementInput) (*models.StockMovement, error) {
	if err := validateMovementInput(input, true); err != nil {
		return nil, err
	}

	var movement *models.StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		movement, txErr = s.CreditTx(ctx, tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) DebitTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockMovement, error) {
	if err := validateMovementInput(input, false); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	newStock, err := repo.DebitStock(ctx, input.ProductID, input.Quantity)
	if err != nil {
		return nil, mapStockError(err)
	}

	movement := &models.StockMovement{
		ProductID:     input.ProductID,
		Type:          enums.MovementTypeOut,
		Quantity:      input.Quantity,
		PreviousStock: newStock + input.Quantity,
		NewStock:      newStock,
		Reason:        input.Reason,
		UserID:        input.UserID,
	}
	if err := repo.CreateMovement(ctx, movement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}

	s.metrics.IncMovement(enums.MovementTypeOut.String())
	return movement, nil
}

func (s *service) CreditTx(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockMovement, error) {
	if err := validateMovementInput(input, false); err != nil {
		return nil, err
	}

	repo := s.repo.WithTx(tx)
	newStock, err := repo.CreditStock(ctx, input.ProductID, input.Quantity)
	if err != nil {
		return nil, mapStockError(err)
	}

	movement := &models.StockMovement{
		ProductID:     input.ProductID,
		Type:          enums.MovementTypeIn,
		Quantity:      input.Quantity,
		PreviousStock: newStock - input.Quantity,
		NewStock:      newStock,
		Reason:        input.Reason,
		UserID:        input.UserID,
	}
	if err := repo.CreateMovement(ctx, movement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}

	s.metrics.IncMovement(enums.MovementTypeIn.String())
	return movement, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.StockMovement, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.NewQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}

	var movement *models.StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		previous, err := repo.SetStock(ctx, input.ProductID, input.NewQuantity)
		if err != nil {
			return mapStockError(err)
		}
		if previous == input.NewQuantity {
			return nil
		}

		delta := input.NewQuantity - previous
		if delta < 0 {
			delta = -delta
		}
		movement = &models.StockMovement{
			ProductID:     input.ProductID,
			Type:          enums.MovementTypeAdjustment,
			Quantity:      delta,
			PreviousStock: previous,
			NewStock:      input.NewQuantity,
			Reason:        input.Reason,
			UserID:        input.UserID,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if movement != nil {
		s.metrics.IncMovement(enums.MovementTypeAdjustment.String())
	}
	return movement, nil
}

func (s *service) ListMovements(ctx context.Context, input ListMovementsInput) (*MovementPage, error) {
	cursor, err := pagination.Decode(input.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	movements, err := s.repo.ListMovements(ctx, MovementFilter{
		ProductID: input.ProductID,
		Cursor:    cursor,
		Limit:     pagination.LimitWithBuffer(input.Params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}

	page, hasMore := pagination.TrimPage(movements, input.Params.Limit)
	next := ""
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &MovementPage{Movements: page, NextCursor: next}, nil
}

func validateMovementInput(input MovementInput, requireReason bool) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if requireReason && strings.TrimSpace(input.Reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}
	return nil
}

func mapStockError(err error) error {
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
			"product_id": insufficient.ProductID.String(),
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
}
