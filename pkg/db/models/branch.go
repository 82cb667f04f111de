package models

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a physical location owned by a company user.
type Branch struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Address   string     `gorm:"column:address;not null"`
	Phone     string     `gorm:"column:phone;not null;default:''"`
	CompanyID *uuid.UUID `gorm:"column:company_id;type:uuid"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
