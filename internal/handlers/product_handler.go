package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/middleware"
	"github.com/inventoryhub/backend/internal/services"
)

type ProductHandler struct {
	inventory *services.InventoryService
}

func NewProductHandler(inventory *services.InventoryService) *ProductHandler {
	return &ProductHandler{inventory: inventory}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	role := middleware.UserRole(c)
	products, err := h.inventory.ListProducts(c.Context(), middleware.UserID(c), role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to fetch products"})
	}

	return c.JSON(dto.ProductListResponse{
		Success:  true,
		Data:     products,
		UserRole: role,
	})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
	}

	product, err := h.inventory.GetProduct(c.Context(), middleware.UserID(c), middleware.UserRole(c), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to fetch product"})
	}

	return c.JSON(dto.ProductDetailResponse{Success: true, Data: *product})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	product, err := h.inventory.CreateProduct(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ProductDetailResponse{
		Success: true,
		Message: "Product created",
		Data:    *product,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	product, err := h.inventory.UpdateProduct(c.Context(), middleware.UserID(c), middleware.UserRole(c), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
		case isValidationErr(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to update product"})
		}
	}

	return c.JSON(dto.ProductDetailResponse{
		Success: true,
		Message: "Product updated",
		Data:    *product,
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
	}

	if err := h.inventory.DeleteProduct(c.Context(), middleware.UserID(c), middleware.UserRole(c), id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to delete product"})
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Product deleted"})
}

func isValidationErr(err error) bool {
	return errors.Is(err, services.ErrProductNameRequired) ||
		errors.Is(err, services.ErrSKURequired) ||
		errors.Is(err, services.ErrNegativeQuantity) ||
		errors.Is(err, services.ErrNegativePrice) ||
		errors.Is(err, services.ErrSKUExists)
}
