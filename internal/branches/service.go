package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/db"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// Service manages branch locations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Branch, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Branch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*BranchPage, error)
}

type service struct {
	repo Repository
}

// NewService builds a branch service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("branch repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Branch, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch name required")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch address required")
	}

	branch := &models.Branch{
		Name:      name,
		Address:   address,
		Phone:     strings.TrimSpace(input.Phone),
		CompanyID: input.CompanyID,
		IsActive:  true,
	}
	if err := s.repo.CreateBranch(ctx, branch); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owning company does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create branch")
	}
	return branch, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	return s.loadBranch(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Branch, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch name required")
		}
		updates["name"] = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch address required")
		}
		updates["address"] = address
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.CompanyID != nil {
		updates["company_id"] = *input.CompanyID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return s.loadBranch(ctx, id)
	}

	if err := s.repo.UpdateBranch(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owning company does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update branch")
	}
	return s.loadBranch(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBranch(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete branch")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*BranchPage, error) {
	cursor, err := pagination.Decode(input.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	branches, err := s.repo.ListBranches(ctx, BranchFilter{
		CompanyID: input.CompanyID,
		IsActive:  input.IsActive,
		Cursor:    cursor,
		Limit:     pagination.LimitWithBuffer(input.Params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list branches")
	}

	page, hasMore := pagination.TrimPage(branches, input.Params.Limit)
	next := ""
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return &BranchPage{Branches: page, NextCursor: next}, nil
}

func (s *service) loadBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, err := s.repo.FindBranchByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load branch")
	}
	return branch, nil
}
