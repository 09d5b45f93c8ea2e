package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"velora/internal/api"
	"velora/internal/config"
	"velora/internal/http/handlers"
	applog "velora/internal/log"
	"velora/internal/repos"
	"velora/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth + API wiring. The auth service is the client's token source and
	// every store's auth-mode switch.
	authSvc := &services.AuthService{Sessions: repos.NewSessionRepo(db)}
	client := api.New(cfg.APIBaseURL, cfg.Locale, cfg.HTTPTimeout, authSvc)
	authSvc.Remote = client
	authSvc.Resume()

	deps := handlers.NewDeps(db, cfg, client, authSvc)

	// Pull server truth once at startup when a session was resumed.
	if authSvc.Authenticated() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		_ = deps.CartHandler.Cart.Fetch(ctx)
		cancel()
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))

	// ---------- Routes ----------
	app.Get("/", deps.HomeHandler.Summary)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Put("/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Post("/cart/coupon", deps.CartHandler.ApplyCoupon)
	app.Delete("/cart/coupon", deps.CartHandler.RemoveCoupon)

	app.Post("/checkout", deps.CheckoutHandler.Place)

	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Save)
	app.Post("/wishlist/delete", deps.WishlistHandler.Unsave)

	app.Get("/compare", deps.CompareHandler.List)
	app.Post("/compare", deps.CompareHandler.Add)
	app.Post("/compare/delete", deps.CompareHandler.Remove)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Staff maintenance
	staff := app.Group("/staff", handlers.RequireStaff(cfg.StaffPassHash))
	staff.Post("/reset", deps.StaffHandler.Reset)
	staff.Get("/state", deps.StaffHandler.State)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
