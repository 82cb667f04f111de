package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/pagination"
)

// StockFilter selects products by how much stock remains.
type StockFilter string

const (
	StockFilterNone       StockFilter = ""
	StockFilterLowStock   StockFilter = "low_stock"
	StockFilterOutOfStock StockFilter = "out_of_stock"
)

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	InitialStock int
	ImageURL     *string
	DownloadURL  *string
	Type         string
	CategoryID   *uuid.UUID
	ActorUserID  *uuid.UUID
}

// UpdateProductInput updates only the fields that are set.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	DownloadURL *string
	Type        *string
	CategoryID  *uuid.UUID
	IsActive    *bool
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID  *uuid.UUID
	Search      string
	IsActive    *bool
	Stock       StockFilter
	LowStockMax int
	Cursor      *pagination.Cursor
	Limit       int
}

// ListProductsInput is the service-level listing request.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	Search     string
	IsActive   *bool
	Stock      StockFilter
	Params     pagination.Params
}

// ProductPage is one page of products, newest first.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// CategoryInput carries the fields accepted for category writes.
type CategoryInput struct {
	Name        string
	Description string
}
