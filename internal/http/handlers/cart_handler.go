package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"velora/internal/api"
	"velora/internal/domain"
	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

// ProductSource resolves catalog snapshots for incoming product ids.
type ProductSource interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	Cart    *services.CartService
	Catalog ProductSource
}

func cartView(cart *services.CartService) fiber.Map {
	return fiber.Map{
		"items":    cart.Items(),
		"coupon":   cart.Coupon(),
		"discount": cart.Discount(),
		"subtotal": cart.Subtotal(),
		"total":    cart.Total(),
	}
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	// resynchronize with the server first; in guest mode this is a no-op
	_ = h.Cart.Fetch(c.UserContext())
	return c.JSON(cartView(h.Cart))
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.Catalog.Product(c.UserContext(), pid)
	if err != nil {
		applog.Error(c, "cart.add.lookup.fail", err, map[string]any{"product": pid})
		status := fiber.StatusBadGateway
		if apiErr := new(api.Error); errors.As(err, &apiErr) && apiErr.Status == fiber.StatusNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": api.Message(err, "product unavailable")})
	}

	if err := h.Cart.AddToCart(c.UserContext(), product, req.Quantity); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "could not add item")})
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "qty": req.Quantity})
	return c.JSON(cartView(h.Cart))
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.Cart.UpdateQuantity(c.UserContext(), id, req.Quantity)
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cart item not found"})
	case err != nil:
		applog.Error(c, "cart.update.fail", err, map[string]any{"item": id})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "could not update item")})
	}
	applog.Audit(c, "cart.update", map[string]any{"item": id, "qty": req.Quantity})
	return c.JSON(cartView(h.Cart))
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	if err := h.Cart.RemoveFromCart(c.UserContext(), id); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"item": id})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "could not remove item")})
	}
	applog.Audit(c, "cart.remove", map[string]any{"item": id})
	return c.JSON(cartView(h.Cart))
}

func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.Cart.ApplyCoupon(c.UserContext(), req.Code)
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		applog.Security(c, "coupon.apply.guest", map[string]any{"code": req.Code})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "please log in to use coupons"})
	case errors.Is(err, services.ErrBadCouponCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon code"})
	case err != nil:
		applog.Error(c, "coupon.apply.fail", err, map[string]any{"code": req.Code})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": api.Message(err, "coupon could not be applied")})
	}
	applog.Audit(c, "coupon.apply", map[string]any{"code": req.Code})
	return c.JSON(cartView(h.Cart))
}

func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	h.Cart.RemoveCoupon()
	applog.Audit(c, "coupon.remove", nil)
	return c.JSON(cartView(h.Cart))
}
