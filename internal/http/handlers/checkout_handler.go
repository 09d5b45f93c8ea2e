package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"velora/internal/api"
	applog "velora/internal/log"
	"velora/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	orderID, err := h.Checkout.Place(c.UserContext())
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "please log in to check out"})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "your cart is empty"})
	case err != nil:
		applog.Error(c, "checkout.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.Message(err, "order could not be placed")})
	}
	applog.Audit(c, "checkout.placed", map[string]any{"order": orderID})
	return c.JSON(fiber.Map{"order_id": orderID})
}
