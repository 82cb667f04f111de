package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// Repository persists product reviews.
type Repository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	FindReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
	ListReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
