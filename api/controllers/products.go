package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lineacommerce/backoffice-backend/api/responses"
	"github.com/lineacommerce/backoffice-backend/api/validators"
	"github.com/lineacommerce/backoffice-backend/internal/catalog"
	"github.com/lineacommerce/backoffice-backend/internal/inventory"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
	"github.com/lineacommerce/backoffice-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description" validate:"max=4096"`
	Price        string  `json:"price" validate:"required"`
	InitialStock int     `json:"initial_stock" validate:"gte=0"`
	ImageURL     *string `json:"image_url,omitempty"`
	DownloadURL  *string `json:"download_url,omitempty"`
	Type         string  `json:"type" validate:"max=64"`
	CategoryID   *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4096"`
	Price       *string `json:"price,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=64"`
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type updateStockRequest struct {
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Operation string `json:"operation" validate:"required,oneof=increase decrease"`
	Reason    string `json:"reason" validate:"required,max=255"`
}

type adjustStockRequest struct {
	NewQuantity int    `json:"new_quantity" validate:"gte=0"`
	Reason      string `json:"reason" validate:"required,max=255"`
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	return price, nil
}

func parseOptionalCategory(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a uuid")
	}
	return &id, nil
}

// ProductCreate adds a catalog listing; initial stock lands through the
// ledger so the movement trail starts at creation.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parsePrice(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := parseOptionalCategory(body.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:         body.Name,
			Description:  body.Description,
			Price:        price,
			InitialStock: body.InitialStock,
			ImageURL:     body.ImageURL,
			DownloadURL:  body.DownloadURL,
			Type:         body.Type,
			CategoryID:   categoryID,
			ActorUserID:  &actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductView(product))
	}
}

// ProductDetail returns one product by id.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(product))
	}
}

// ProductList serves the catalog listing with search, category, active
// and stock-level filters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			Search:   r.URL.Query().Get("search"),
			IsActive: isActive,
			Stock:    catalog.StockFilter(r.URL.Query().Get("stock")),
			Params:   params,
		}
		if categoryID != uuid.Nil {
			input.CategoryID = &categoryID
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := pageView[productView]{Items: []productView{}, NextCursor: page.NextCursor}
		for i := range page.Products {
			out.Items = append(out.Items, toProductView(&page.Products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductUpdate edits catalog fields. Stock is not editable here; it
// only moves through the stock endpoints.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        body.Name,
			Description: body.Description,
			ImageURL:    body.ImageURL,
			DownloadURL: body.DownloadURL,
			Type:        body.Type,
			IsActive:    body.IsActive,
		}
		if body.Price != nil {
			price, err := parsePrice(*body.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Price = &price
		}
		if body.CategoryID != nil {
			categoryID, err := parseOptionalCategory(body.CategoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CategoryID = categoryID
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductView(product))
	}
}

// ProductDelete removes a listing without order history.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductUpdateStock routes an increase or decrease through the ledger.
func ProductUpdateStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		operation, err := enums.ParseStockOperation(body.Operation)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operation"))
			return
		}

		input := inventory.MovementInput{
			ProductID: productID,
			Quantity:  body.Quantity,
			Reason:    body.Reason,
			UserID:    &actorID,
		}

		var movement *models.StockMovement
		switch operation {
		case enums.StockOperationIncrease:
			movement, err = svc.Credit(r.Context(), input)
		case enums.StockOperationDecrease:
			movement, err = svc.Debit(r.Context(), input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"stock":    movement.NewStock,
			"movement": toMovementView(movement),
		})
	}
}

// ProductAdjustStock overwrites the stock count to an absolute value,
// recording the delta as an adjustment movement.
func ProductAdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.Adjust(r.Context(), inventory.AdjustInput{
			ProductID:   productID,
			NewQuantity: body.NewQuantity,
			Reason:      body.Reason,
			UserID:      &actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// A no-op adjustment records nothing.
		if movement == nil {
			responses.WriteSuccess(w, map[string]any{"stock": body.NewQuantity})
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"stock":    movement.NewStock,
			"movement": toMovementView(movement),
		})
	}
}

// ProductMovements lists the audit trail for one product.
func ProductMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListMovements(r.Context(), inventory.ListMovementsInput{
			ProductID: &productID,
			Params:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := pageView[movementView]{Items: []movementView{}, NextCursor: page.NextCursor}
		for i := range page.Movements {
			out.Items = append(out.Items, toMovementView(&page.Movements[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
