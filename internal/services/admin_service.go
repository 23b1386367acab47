package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/repository"
)

// AdminUserStore extends the user lookups with the listing used by the
// admin panel.
type AdminUserStore interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// AdminProductStore covers the per-user product stats.
type AdminProductStore interface {
	CountsByUser(ctx context.Context) (map[uuid.UUID]int64, error)
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Product, error)
}

// AdminService serves the admin user-management endpoints.
type AdminService struct {
	users    AdminUserStore
	products AdminProductStore
}

func NewAdminService(users AdminUserStore, products AdminProductStore) *AdminService {
	return &AdminService{users: users, products: products}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]dto.AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.products.CountsByUser(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, dto.AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			Role:         u.Role,
			Verified:     u.Verified,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
			ProductCount: counts[u.ID],
		})
	}
	return out, nil
}

func (s *AdminService) GetUser(ctx context.Context, id uuid.UUID) (*dto.AdminUserDetail, error) {
	user, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	products, err := s.products.RecentByUser(ctx, user.ID, 10)
	if err != nil {
		return nil, err
	}

	var totalValue float64
	for _, p := range products {
		totalValue += float64(p.Quantity) * p.UnitPrice
	}

	return &dto.AdminUserDetail{
		AdminUser: dto.AdminUser{
			ID:           user.ID,
			Email:        user.Email,
			Role:         user.Role,
			Verified:     user.Verified,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
			ProductCount: int64(len(products)),
		},
		Products: products,
		Stats: dto.AdminUserStats{
			TotalProducts:       len(products),
			TotalInventoryValue: totalValue,
			LastLogin:           user.UpdatedAt,
		},
	}, nil
}
