package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// Repository persists user accounts.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
