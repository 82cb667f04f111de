package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) DebitStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		available, err := r.GetStock(ctx, productID)
		if err != nil {
			return 0, err
		}
		return 0, &InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
	}
	return r.GetStock(ctx, productID)
}

func (r *repository) CreditStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return r.GetStock(ctx, productID)
}

func (r *repository) SetStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	previous, err := r.GetStock(ctx, productID)
	if err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock = ?
	`, qty, productID, previous)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errors.New("stock changed concurrently, retry adjustment")
	}
	return previous, nil
}

func (r *repository) GetStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("stock").
		Where("id = ?", productID).
		Take(&stock).Error
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, filter MovementFilter) ([]models.StockMovement, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var movements []models.StockMovement
	if err := query.Order("created_at DESC, id DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
