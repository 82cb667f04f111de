package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lineacommerce/backoffice-backend/internal/cart"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// The view structs shape what leaves the API; persistence models never
// serialize directly.

type productView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Stock       int           `json:"stock"`
	ImageURL    *string       `json:"image_url,omitempty"`
	DownloadURL *string       `json:"download_url,omitempty"`
	Type        string        `json:"type"`
	Category    *categoryView `json:"category,omitempty"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type categoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type movementView struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	Type          string     `json:"type"`
	Quantity      int        `json:"quantity"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	Reason        string     `json:"reason"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type cartItemView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"line_total"`
}

type cartView struct {
	ID    uuid.UUID      `json:"id"`
	Items []cartItemView `json:"items"`
	Total string         `json:"total"`
}

type orderDetailView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

type orderView struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    string            `json:"status"`
	Total     string            `json:"total"`
	PlacedAt  time.Time         `json:"placed_at"`
	Items     []orderDetailView `json:"items,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type userView struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Role        string     `json:"role"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type reviewView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type branchView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

type pageView[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func toProductView(p *models.Product) productView {
	view := productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		DownloadURL: p.DownloadURL,
		Type:        p.Type,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		category := toCategoryView(p.Category)
		view.Category = &category
	}
	return view
}

func toCategoryView(c *models.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toMovementView(m *models.StockMovement) movementView {
	return movementView{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}
}

func toCartView(view *cart.View) cartView {
	out := cartView{
		ID:    view.Cart.ID,
		Items: []cartItemView{},
		Total: view.Total.StringFixed(2),
	}
	for _, item := range view.Cart.Items {
		line := cartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.UnitPrice = item.Product.Price.StringFixed(2)
			line.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2)
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func toOrderView(o *models.Order) orderView {
	view := orderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total.StringFixed(2),
		PlacedAt:  o.PlacedAt,
		CreatedAt: o.CreatedAt,
	}
	for _, detail := range o.Items {
		line := orderDetailView{
			ID:        detail.ID,
			ProductID: detail.ProductID,
			Quantity:  detail.Quantity,
			UnitPrice: detail.UnitPrice.StringFixed(2),
			LineTotal: detail.UnitPrice.Mul(decimal.NewFromInt(int64(detail.Quantity))).StringFixed(2),
		}
		if detail.Product != nil {
			line.Name = detail.Product.Name
		}
		view.Items = append(view.Items, line)
	}
	return view
}

func toUserView(u *models.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Address:     u.Address,
		Role:        string(u.Role),
		CompanyID:   u.CompanyID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toReviewView(r *models.Review) reviewView {
	return reviewView{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toBranchView(b *models.Branch) branchView {
	return branchView{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		CompanyID: b.CompanyID,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}
