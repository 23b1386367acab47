package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// List returns all products when all is true (admin), otherwise only
// the given user's rows. Newest first, like the original listing.
func (r *ProductRepo) List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !all {
		q = q.Where("user_id = ?", userID)
	}
	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepo) ByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// SKUExists reports whether another product of the same user already
// carries the SKU. except skips the product being updated.
func (r *ProductRepo) SKUExists(ctx context.Context, userID uuid.UUID, sku string, except uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("user_id = ? AND sku = ?", userID, sku)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CountsByUser returns product counts keyed by owner, for the admin
// user listing.
func (r *ProductRepo) CountsByUser(ctx context.Context) (map[uuid.UUID]int64, error) {
	type row struct {
		UserID uuid.UUID
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("user_id, COUNT(*) AS n").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.N
	}
	return counts, nil
}

func (r *ProductRepo) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}
