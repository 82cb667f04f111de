package branches

import (
	"context"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// Repository persists branch locations.
type Repository interface {
	CreateBranch(ctx context.Context, branch *models.Branch) error
	FindBranchByID(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	UpdateBranch(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteBranch(ctx context.Context, id uuid.UUID) error
	ListBranches(ctx context.Context, filter BranchFilter) ([]models.Branch, error)
}
