package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineacommerce/backoffice-backend/pkg/enums"
)

// StockMovement records an immutable change to a product's stock count.
// Rows are append-only; nothing in the codebase updates or deletes them.
type StockMovement struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	Type          enums.MovementType `gorm:"column:type;type:text;not null"`
	Quantity      int                `gorm:"column:quantity;not null"`
	PreviousStock int                `gorm:"column:previous_stock;not null"`
	NewStock      int                `gorm:"column:new_stock;not null"`
	Reason        string             `gorm:"column:reason;not null"`
	UserID        *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
