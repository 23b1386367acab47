package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Category, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !all {
		q = q.Where("user_id = ?", userID)
	}
	var categories []models.Category
	err := q.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepo) ByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// NamesByIDs resolves category names for product listings.
func (r *CategoryRepo) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
