package users

import (
	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// RegisterInput carries a self-service signup. The role is always client.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Address   *string
}

// CreateInput carries a staff-created account with an explicit role.
type CreateInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Address   *string
	Role      enums.UserRole
	CompanyID *uuid.UUID
}

// UpdateInput carries a partial profile edit. Nil fields are untouched.
type UpdateInput struct {
	UserID      uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
	FirstName   *string
	LastName    *string
	Phone       *string
	Address     *string
	Role        *enums.UserRole
	IsActive    *bool
}

// ChangePasswordInput rotates a user's password after verifying the
// current one.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// UserFilter narrows a user listing.
type UserFilter struct {
	Role     enums.UserRole
	IsActive *bool
	Search   string
	Cursor   *pagination.Cursor
	Limit    int
}

// ListInput is a paginated user listing request.
type ListInput struct {
	Role     enums.UserRole
	IsActive *bool
	Search   string
	Params   pagination.Params
}

// UserPage is one page of users, newest first.
type UserPage struct {
	Users      []models.User
	NextCursor string
}
