package dto

import (
	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
)

type ProductRequest struct {
	Name        *string         `json:"name"`
	SKU         *string         `json:"sku"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Quantity    *int            `json:"quantity"`
	MinStock    *int            `json:"min_stock"`
	UnitPrice   *float64        `json:"unit_price"`
	Description *string         `json:"description"`
	Attributes  map[string]any  `json:"attributes"`
}

type CategoryRef struct {
	Name string `json:"name"`
}

// ProductResponse is a product row joined with its category name.
type ProductResponse struct {
	models.Product
	Categories CategoryRef `json:"categories"`
}

type ProductListResponse struct {
	Success  bool              `json:"success"`
	Data     []ProductResponse `json:"data"`
	UserRole string            `json:"userRole,omitempty"`
}

type ProductDetailResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    ProductResponse `json:"data"`
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoryListResponse struct {
	Success bool              `json:"success"`
	Data    []models.Category `json:"data"`
}

type CategoryDetailResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    models.Category `json:"data"`
}
