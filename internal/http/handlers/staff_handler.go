package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "velora/internal/log"
	"velora/internal/repos"
	"velora/internal/services"
)

// StaffHandler exposes device maintenance: wiping local state on shared
// terminals and inspecting what the companion currently holds.
type StaffHandler struct {
	Cart    *services.CartService
	Wish    *repos.WishlistRepo
	Compare *services.CompareService
	Auth    *services.AuthService
}

func (h *StaffHandler) Reset(c *fiber.Ctx) error {
	h.Cart.Clear()
	h.Compare.Clear()
	if err := h.Wish.Clear(); err != nil {
		applog.Error(c, "staff.reset.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear wishlist"})
	}
	h.Auth.Logout()
	applog.Audit(c, "staff.reset", nil)
	return c.JSON(fiber.Map{"ok": true})
}

func (h *StaffHandler) State(c *fiber.Ctx) error {
	wishCount := 0
	if list, err := h.Wish.List(); err == nil {
		wishCount = len(list)
	}
	return c.JSON(fiber.Map{
		"authenticated": h.Auth.Authenticated(),
		"cart_lines":    len(h.Cart.Items()),
		"cart_total":    h.Cart.Total(),
		"wishlist":      wishCount,
		"compare":       len(h.Compare.List()),
	})
}
