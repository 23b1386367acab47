package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_user_sku" json:"user_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	SKU         string         `gorm:"size:100;not null;uniqueIndex:idx_products_user_sku" json:"sku"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id"`
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`
	MinStock    int            `gorm:"not null;default:10" json:"min_stock"`
	UnitPrice   float64        `gorm:"not null;default:0" json:"unit_price"`
	Description *string        `gorm:"type:text" json:"description"`
	Attributes  datatypes.JSON `gorm:"type:jsonb" json:"attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
