package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

const (
	minRating = 1
	maxRating = 5
)

// Service manages product reviews. Each user holds at most one review
// per product; edits and deletions are restricted to the author or staff.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, input UpdateInput) (*models.Review, error)
	Delete(ctx context.Context, input DeleteInput) error
	List(ctx context.Context, input ListInput) (*ReviewPage, error)
}

type service struct {
	repo     Repository
	products productReader
}

// NewService builds a review service with the required dependencies.
func NewService(repo Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	if _, err := s.products.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := &models.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.loadReview(ctx, id)
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Review, error) {
	review, err := s.loadReview(ctx, input.ReviewID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(review, input.ActorUserID, input.ActorRole); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *input.Rating
	}
	if input.Comment != nil {
		updates["comment"] = strings.TrimSpace(*input.Comment)
	}
	if len(updates) == 0 {
		return review, nil
	}

	if err := s.repo.UpdateReview(ctx, input.ReviewID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return s.loadReview(ctx, input.ReviewID)
}

func (s *service) Delete(ctx context.Context, input DeleteInput) error {
	review, err := s.loadReview(ctx, input.ReviewID)
	if err != nil {
		return err
	}
	if err := s.authorize(review, input.ActorUserID, input.ActorRole); err != nil {
		return err
	}

	if err := s.repo.DeleteReview(ctx, input.ReviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ReviewPage, error) {
	cursor, err := pagination.Decode(input.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	reviews, err := s.repo.ListReviews(ctx, ReviewFilter{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Cursor:    cursor,
		Limit:     pagination.LimitWithBuffer(input.Params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	page, hasMore := pagination.TrimPage(reviews, input.Params.Limit)
	next := ""
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return &ReviewPage{Reviews: page, NextCursor: next}, nil
}

func (s *service) loadReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func (s *service) authorize(review *models.Review, actorID uuid.UUID, role enums.UserRole) error {
	if review.UserID == actorID {
		return nil
	}
	if role == enums.UserRoleAdmin || role == enums.UserRoleManager {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another user")
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}
