package reviews

import (
	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// CreateInput carries a new review.
type CreateInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
}

// UpdateInput carries a partial review edit. Nil fields are untouched.
type UpdateInput struct {
	ReviewID    uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
	Rating      *int
	Comment     *string
}

// DeleteInput identifies a review and the actor removing it.
type DeleteInput struct {
	ReviewID    uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// ReviewFilter narrows a review listing.
type ReviewFilter struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Cursor    *pagination.Cursor
	Limit     int
}

// ListInput is a paginated review listing request.
type ListInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Params    pagination.Params
}

// ReviewPage is one page of reviews, newest first.
type ReviewPage struct {
	Reviews    []models.Review
	NextCursor string
}
