package branches

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
)

type stubBranchRepo struct {
	branches map[uuid.UUID]*models.Branch
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{branches: make(map[uuid.UUID]*models.Branch)}
}

func (s *stubBranchRepo) CreateBranch(ctx context.Context, branch *models.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	branch.CreatedAt = time.Now().UTC()
	s.branches[branch.ID] = branch
	return nil
}

func (s *stubBranchRepo) FindBranchByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, ok := s.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *branch
	return &clone, nil
}

func (s *stubBranchRepo) UpdateBranch(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	branch, ok := s.branches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		branch.Name = name
	}
	if address, ok := updates["address"].(string); ok {
		branch.Address = address
	}
	if phone, ok := updates["phone"].(string); ok {
		branch.Phone = phone
	}
	if active, ok := updates["is_active"].(bool); ok {
		branch.IsActive = active
	}
	return nil
}

func (s *stubBranchRepo) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.branches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.branches, id)
	return nil
}

func (s *stubBranchRepo) ListBranches(ctx context.Context, filter BranchFilter) ([]models.Branch, error) {
	var out []models.Branch
	for _, branch := range s.branches {
		if filter.IsActive != nil && branch.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *branch)
	}
	return out, nil
}

func newBranchService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateBranch(t *testing.T) {
	svc := newBranchService(t, newStubBranchRepo())

	branch, err := svc.Create(context.Background(), CreateInput{
		Name:    "  Downtown  ",
		Address: "1 Main St",
		Phone:   "555-0100",
	})
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if branch.Name != "Downtown" {
		t.Fatalf("name = %q, want trimmed", branch.Name)
	}
	if !branch.IsActive {
		t.Fatal("new branch should be active")
	}
}

func TestCreateBranchValidation(t *testing.T) {
	svc := newBranchService(t, newStubBranchRepo())

	cases := []CreateInput{
		{Name: "", Address: "1 Main St"},
		{Name: "Downtown", Address: "   "},
	}
	for _, input := range cases {
		_, err := svc.Create(context.Background(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestUpdateBranch(t *testing.T) {
	svc := newBranchService(t, newStubBranchRepo())

	branch, err := svc.Create(context.Background(), CreateInput{Name: "Downtown", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}

	inactive := false
	phone := "555-0199"
	updated, err := svc.Update(context.Background(), branch.ID, UpdateInput{
		Phone:    &phone,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update branch: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone = %q", updated.Phone)
	}
	if updated.IsActive {
		t.Fatal("branch should be inactive")
	}
	if updated.Name != "Downtown" {
		t.Fatalf("untouched name changed: %q", updated.Name)
	}

	empty := " "
	_, err = svc.Update(context.Background(), branch.ID, UpdateInput{Name: &empty})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteBranch(t *testing.T) {
	svc := newBranchService(t, newStubBranchRepo())

	branch, err := svc.Create(context.Background(), CreateInput{Name: "Downtown", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}

	if err := svc.Delete(context.Background(), branch.ID); err != nil {
		t.Fatalf("delete branch: %v", err)
	}

	err = svc.Delete(context.Background(), branch.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListBranchesActiveFilter(t *testing.T) {
	repo := newStubBranchRepo()
	svc := newBranchService(t, repo)

	open, err := svc.Create(context.Background(), CreateInput{Name: "Open", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}
	closed, err := svc.Create(context.Background(), CreateInput{Name: "Closed", Address: "2 Main St"})
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}
	inactive := false
	if _, err := svc.Update(context.Background(), closed.ID, UpdateInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate branch: %v", err)
	}

	active := true
	page, err := svc.List(context.Background(), ListInput{IsActive: &active})
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	if len(page.Branches) != 1 || page.Branches[0].ID != open.ID {
		t.Fatalf("active listing = %+v", page.Branches)
	}
}
