package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"velora/internal/api"
	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

type CompareHandler struct {
	Compare *services.CompareService
	Catalog ProductSource
}

func (h *CompareHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": h.Compare.List()})
}

func (h *CompareHandler) Add(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}

	product, err := h.Catalog.Product(c.UserContext(), pid)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "product unavailable")})
	}
	if err := h.Compare.Add(*product); err != nil {
		if errors.Is(err, services.ErrCompareFull) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "comparison list is full"})
		}
		applog.Error(c, "compare.add.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not add product"})
	}
	return c.JSON(fiber.Map{"items": h.Compare.List()})
}

func (h *CompareHandler) Remove(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	h.Compare.Remove(req.ProductID)
	return c.JSON(fiber.Map{"items": h.Compare.List()})
}
