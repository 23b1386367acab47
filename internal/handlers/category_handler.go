package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/middleware"
	"github.com/inventoryhub/backend/internal/services"
)

type CategoryHandler struct {
	inventory *services.InventoryService
}

func NewCategoryHandler(inventory *services.InventoryService) *CategoryHandler {
	return &CategoryHandler{inventory: inventory}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.inventory.ListCategories(c.Context(), middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to fetch categories"})
	}

	return c.JSON(dto.CategoryListResponse{Success: true, Data: categories})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	category, err := h.inventory.CreateCategory(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNameRequired), errors.Is(err, services.ErrCategoryExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to create category"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CategoryDetailResponse{
		Success: true,
		Message: "Category created",
		Data:    *category,
	})
}
