package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "velora/internal/log"
)

// RequireStaff guards local maintenance routes with a passcode checked
// against the bcrypt hash from config. With no hash configured the routes
// simply don't exist.
func RequireStaff(passHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if passHash == "" {
			return c.SendStatus(fiber.StatusNotFound)
		}
		pass := c.Get("X-Staff-Pass")
		if pass == "" || bcrypt.CompareHashAndPassword([]byte(passHash), []byte(pass)) != nil {
			applog.Security(c, "staff.denied", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		return c.Next()
	}
}
