package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/api/responses"
	"github.com/lineacommerce/backoffice-backend/api/validators"
	"github.com/lineacommerce/backoffice-backend/internal/branches"
	"github.com/lineacommerce/backoffice-backend/pkg/logger"
)

type createBranchRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Address   string  `json:"address" validate:"required,max=512"`
	Phone     string  `json:"phone" validate:"max=32"`
	CompanyID *string `json:"company_id,omitempty" validate:"omitempty,uuid"`
}

type updateBranchRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=512"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	CompanyID *string `json:"company_id,omitempty" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func parseOptionalCompany(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := validators.ParseUUID(*raw, "company_id")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func BranchCreate(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createBranchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		companyID, err := parseOptionalCompany(body.CompanyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.Create(r.Context(), branches.CreateInput{
			Name:      body.Name,
			Address:   body.Address,
			Phone:     body.Phone,
			CompanyID: companyID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBranchView(branch))
	}
}

func BranchDetail(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branchID, err := validators.ParseURLParamUUID(r, "branchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.Get(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBranchView(branch))
	}
}

func BranchUpdate(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branchID, err := validators.ParseURLParamUUID(r, "branchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateBranchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := branches.UpdateInput{
			Name:     body.Name,
			Address:  body.Address,
			Phone:    body.Phone,
			IsActive: body.IsActive,
		}
		if body.CompanyID != nil {
			companyID, err := parseOptionalCompany(body.CompanyID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CompanyID = companyID
		}

		branch, err := svc.Update(r.Context(), branchID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBranchView(branch))
	}
}

func BranchDelete(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branchID, err := validators.ParseURLParamUUID(r, "branchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), branchID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func BranchList(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		companyID, err := validators.ParseQueryUUID(r, "company_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := branches.ListInput{
			IsActive: isActive,
			Params:   params,
		}
		if companyID != uuid.Nil {
			input.CompanyID = &companyID
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := pageView[branchView]{Items: []branchView{}, NextCursor: page.NextCursor}
		for i := range page.Branches {
			out.Items = append(out.Items, toBranchView(&page.Branches[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
