package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/api/middleware"
	"github.com/lineacommerce/backoffice-backend/api/validators"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// currentActor extracts the authenticated user and role seeded by the
// auth middleware.
func currentActor(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	rawID := middleware.UserIDFromContext(r.Context())
	if rawID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}
	return userID, role, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	}, nil
}
