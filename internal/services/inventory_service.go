package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/repository"
	"gorm.io/datatypes"
)

var (
	ErrProductNameRequired  = errors.New("product name is required")
	ErrSKURequired          = errors.New("SKU is required")
	ErrNegativeQuantity     = errors.New("quantity cannot be negative")
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrSKUExists            = errors.New("SKU already exists for this user")
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryExists       = errors.New("category already exists for this user")
)

// ProductStore is the slice of the product repository the inventory
// service needs.
type ProductStore interface {
	List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Product, error)
	ByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SKUExists(ctx context.Context, userID uuid.UUID, sku string, except uuid.UUID) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryStore interface {
	List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Category, error)
	ByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// InventoryService implements the product and category operations.
// Every read and write is scoped to the calling user unless their role
// is admin.
type InventoryService struct {
	products   ProductStore
	categories CategoryStore
}

func NewInventoryService(products ProductStore, categories CategoryStore) *InventoryService {
	return &InventoryService{products: products, categories: categories}
}

func (s *InventoryService) ListProducts(ctx context.Context, userID uuid.UUID, role string) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx, userID, role == "admin")
	if err != nil {
		return nil, err
	}
	return s.withCategoryNames(ctx, products)
}

func (s *InventoryService) GetProduct(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.ownedProduct(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.withCategoryNames(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *InventoryService) CreateProduct(ctx context.Context, userID uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(deref(req.Name))
	if name == "" {
		return nil, ErrProductNameRequired
	}
	sku := strings.TrimSpace(deref(req.SKU))
	if sku == "" {
		return nil, ErrSKURequired
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if req.UnitPrice != nil && *req.UnitPrice < 0 {
		return nil, ErrNegativePrice
	}

	taken, err := s.products.SKUExists(ctx, userID, sku, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSKUExists
	}

	product := &models.Product{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		SKU:        sku,
		CategoryID: req.CategoryID,
		MinStock:   10,
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if d := strings.TrimSpace(deref(req.Description)); d != "" {
		product.Description = &d
	}
	if len(req.Attributes) > 0 {
		b, err := json.Marshal(req.Attributes)
		if err != nil {
			return nil, err
		}
		product.Attributes = datatypes.JSON(b)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	resp, err := s.withCategoryNames(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := s.ownedProduct(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrProductNameRequired
		}
		product.Name = name
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			return nil, ErrSKURequired
		}
		taken, err := s.products.SKUExists(ctx, product.UserID, sku, product.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSKUExists
		}
		product.SKU = sku
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, ErrNegativeQuantity
		}
		product.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return nil, ErrNegativePrice
		}
		product.UnitPrice = *req.UnitPrice
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			product.Description = &d
		} else {
			product.Description = nil
		}
	}
	if req.Attributes != nil {
		b, err := json.Marshal(req.Attributes)
		if err != nil {
			return nil, err
		}
		product.Attributes = datatypes.JSON(b)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	resp, err := s.withCategoryNames(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *InventoryService) DeleteProduct(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	product, err := s.ownedProduct(ctx, userID, role, id)
	if err != nil {
		return err
	}
	return s.products.Delete(ctx, product.ID)
}

func (s *InventoryService) ListCategories(ctx context.Context, userID uuid.UUID, role string) ([]models.Category, error) {
	return s.categories.List(ctx, userID, role == "admin")
}

func (s *InventoryService) CreateCategory(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	if _, err := s.categories.ByName(ctx, userID, name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	category := &models.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if d := strings.TrimSpace(deref(req.Description)); d != "" {
		category.Description = &d
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ownedProduct loads a product and enforces ownership. Foreign rows
// look identical to absent ones for non-admins.
func (s *InventoryService) ownedProduct(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if role != "admin" && product.UserID != userID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *InventoryService) withCategoryNames(ctx context.Context, products []models.Product) ([]dto.ProductResponse, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, p := range products {
		if p.CategoryID != nil && !seen[*p.CategoryID] {
			seen[*p.CategoryID] = true
			ids = append(ids, *p.CategoryID)
		}
	}

	names, err := s.categories.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		name := "Uncategorized"
		if p.CategoryID != nil {
			if n, ok := names[*p.CategoryID]; ok {
				name = n
			}
		}
		resp = append(resp, dto.ProductResponse{
			Product:    p,
			Categories: dto.CategoryRef{Name: name},
		})
	}
	return resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
