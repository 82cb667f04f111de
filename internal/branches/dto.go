package branches

import (
	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// CreateInput carries a new branch location.
type CreateInput struct {
	Name      string
	Address   string
	Phone     string
	CompanyID *uuid.UUID
}

// UpdateInput carries a partial branch edit. Nil fields are untouched.
type UpdateInput struct {
	Name      *string
	Address   *string
	Phone     *string
	CompanyID *uuid.UUID
	IsActive  *bool
}

// BranchFilter narrows a branch listing.
type BranchFilter struct {
	CompanyID *uuid.UUID
	IsActive  *bool
	Cursor    *pagination.Cursor
	Limit     int
}

// ListInput is a paginated branch listing request.
type ListInput struct {
	CompanyID *uuid.UUID
	IsActive  *bool
	Params    pagination.Params
}

// BranchPage is one page of branches, newest first.
type BranchPage struct {
	Branches   []models.Branch
	NextCursor string
}
