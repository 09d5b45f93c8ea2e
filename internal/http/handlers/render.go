package handlers

import (
	"github.com/gofiber/fiber/v2"

	"velora/internal/services"
)

// HomeHandler serves the server-rendered cart summary, a fallback for
// terminals that run without the full storefront UI.
type HomeHandler struct {
	Cart *services.CartService
	Auth *services.AuthService
}

func (h *HomeHandler) Summary(c *fiber.Ctx) error {
	_ = h.Cart.Fetch(c.UserContext())
	data := fiber.Map{
		"Items":    h.Cart.Items(),
		"Subtotal": h.Cart.Subtotal(),
		"Discount": h.Cart.Discount(),
		"Total":    h.Cart.Total(),
	}
	if u := h.Auth.CurrentUser(); u != nil {
		data["User"] = u
	}
	return c.Render("cart", data)
}
