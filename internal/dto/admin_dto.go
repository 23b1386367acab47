package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
)

type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ProductCount int64     `json:"product_count"`
}

type AdminUserListResponse struct {
	Success bool        `json:"success"`
	Data    []AdminUser `json:"data"`
}

type AdminUserStats struct {
	TotalProducts       int       `json:"total_products"`
	TotalInventoryValue float64   `json:"total_inventory_value"`
	LastLogin           time.Time `json:"last_login"`
}

type AdminUserDetail struct {
	AdminUser
	Products []models.Product `json:"products"`
	Stats    AdminUserStats   `json:"stats"`
}

type AdminUserDetailResponse struct {
	Success bool            `json:"success"`
	Data    AdminUserDetail `json:"data"`
}
