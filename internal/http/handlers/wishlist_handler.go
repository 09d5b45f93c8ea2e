package handlers

import (
	"github.com/gofiber/fiber/v2"

	"velora/internal/api"
	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

type WishlistHandler struct {
	Wish    *services.WishlistService
	Catalog ProductSource
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List()
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load wishlist"})
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
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
		applog.Error(c, "wishlist.save.lookup.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "product unavailable")})
	}

	saved, err := h.Wish.Toggle(*product)
	if err != nil {
		applog.Error(c, "wishlist.save.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save item"})
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"product": pid, "saved": saved})
	return c.JSON(fiber.Map{"saved": saved})
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
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
	if err := h.Wish.Unsave(pid); err != nil {
		applog.Error(c, "wishlist.unsave.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not remove item"})
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"saved": false})
}
