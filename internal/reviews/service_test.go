package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
)

type stubReviewRepo struct {
	reviews map[uuid.UUID]*models.Review

	createFn func(ctx context.Context, review *models.Review) error
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[uuid.UUID]*models.Review)}
}

func (s *stubReviewRepo) CreateReview(ctx context.Context, review *models.Review) error {
	if s.createFn != nil {
		return s.createFn(ctx, review)
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now().UTC()
	s.reviews[review.ID] = review
	return nil
}

func (s *stubReviewRepo) FindReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *review
	return &clone, nil
}

func (s *stubReviewRepo) UpdateReview(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	review, ok := s.reviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if rating, ok := updates["rating"].(int); ok {
		review.Rating = rating
	}
	if comment, ok := updates["comment"].(string); ok {
		review.Comment = comment
	}
	return nil
}

func (s *stubReviewRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *stubReviewRepo) ListReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	var out []models.Review
	for _, review := range s.reviews {
		if filter.ProductID != uuid.Nil && review.ProductID != filter.ProductID {
			continue
		}
		if filter.UserID != uuid.Nil && review.UserID != filter.UserID {
			continue
		}
		out = append(out, *review)
	}
	return out, nil
}

type stubReviewProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubReviewProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func newReviewService(t *testing.T, repo *stubReviewRepo, products *stubReviewProducts) Service {
	t.Helper()
	svc, err := NewService(repo, products)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedReviewProduct() (*stubReviewProducts, uuid.UUID) {
	productID := uuid.New()
	return &stubReviewProducts{byID: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Widget", IsActive: true},
	}}, productID
}

func TestCreateReview(t *testing.T) {
	repo := newStubReviewRepo()
	products, productID := seedReviewProduct()
	svc := newReviewService(t, repo, products)
	userID := uuid.New()

	review, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID,
		UserID:    userID,
		Rating:    4,
		Comment:   "  solid  ",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.Rating != 4 {
		t.Fatalf("rating = %d, want 4", review.Rating)
	}
	if review.Comment != "solid" {
		t.Fatalf("comment = %q, want trimmed", review.Comment)
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	repo := newStubReviewRepo()
	products, productID := seedReviewProduct()
	svc := newReviewService(t, repo, products)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), CreateInput{
			ProductID: productID,
			UserID:    uuid.New(),
			Rating:    rating,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}

	for _, rating := range []int{1, 5} {
		_, err := svc.Create(context.Background(), CreateInput{
			ProductID: productID,
			UserID:    uuid.New(),
			Rating:    rating,
		})
		if err != nil {
			t.Fatalf("rating %d should be accepted: %v", rating, err)
		}
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	repo := newStubReviewRepo()
	products, _ := seedReviewProduct()
	svc := newReviewService(t, repo, products)

	_, err := svc.Create(context.Background(), CreateInput{
		ProductID: uuid.New(),
		UserID:    uuid.New(),
		Rating:    3,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateReviewOwnership(t *testing.T) {
	repo := newStubReviewRepo()
	products, productID := seedReviewProduct()
	svc := newReviewService(t, repo, products)
	owner := uuid.New()

	review, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, UserID: owner, Rating: 2,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	newRating := 5
	_, err = svc.Update(context.Background(), UpdateInput{
		ReviewID:    review.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleClient,
		Rating:      &newRating,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}

	// The author may edit.
	updated, err := svc.Update(context.Background(), UpdateInput{
		ReviewID:    review.ID,
		ActorUserID: owner,
		ActorRole:   enums.UserRoleClient,
		Rating:      &newRating,
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Rating != 5 {
		t.Fatalf("rating = %d, want 5", updated.Rating)
	}

	// So may staff.
	comment := "moderated"
	moderated, err := svc.Update(context.Background(), UpdateInput{
		ReviewID:    review.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleAdmin,
		Comment:     &comment,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if moderated.Comment != "moderated" {
		t.Fatalf("comment = %q", moderated.Comment)
	}
}

func TestDeleteReview(t *testing.T) {
	repo := newStubReviewRepo()
	products, productID := seedReviewProduct()
	svc := newReviewService(t, repo, products)
	owner := uuid.New()

	review, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, UserID: owner, Rating: 1,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	err = svc.Delete(context.Background(), DeleteInput{
		ReviewID:    review.ID,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleClient,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := svc.Delete(context.Background(), DeleteInput{
		ReviewID:    review.ID,
		ActorUserID: owner,
		ActorRole:   enums.UserRoleClient,
	}); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	_, err = svc.Get(context.Background(), review.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListReviewsByProduct(t *testing.T) {
	repo := newStubReviewRepo()
	products, productID := seedReviewProduct()
	svc := newReviewService(t, repo, products)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), CreateInput{
			ProductID: productID, UserID: uuid.New(), Rating: 3,
		}); err != nil {
			t.Fatalf("create review %d: %v", i, err)
		}
	}

	page, err := svc.List(context.Background(), ListInput{ProductID: productID})
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(page.Reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(page.Reviews))
	}

	other, err := svc.List(context.Background(), ListInput{ProductID: uuid.New()})
	if err != nil {
		t.Fatalf("list other product: %v", err)
	}
	if len(other.Reviews) != 0 {
		t.Fatalf("got %d reviews for unknown product, want 0", len(other.Reviews))
	}
}
