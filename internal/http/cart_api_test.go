package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"velora/internal/api"
	"velora/internal/domain"
	"velora/internal/http/handlers"
	"velora/internal/repos"
	"velora/internal/services"
)

// stubRemote satisfies the cart's remote contract and the product source in
// one type. Guest-mode tests assert it is never reached for cart mutations.
type stubRemote struct {
	products  map[string]*domain.Product
	cartCalls int
	couponErr error
}

func (s *stubRemote) Product(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, fiber.ErrNotFound
}

func (s *stubRemote) FetchCart(ctx context.Context) ([]domain.CartItem, error) {
	s.cartCalls++
	return nil, nil
}

func (s *stubRemote) AddItem(ctx context.Context, productID string, qty int) error {
	s.cartCalls++
	return nil
}

func (s *stubRemote) UpdateItem(ctx context.Context, itemID string, qty int) error {
	s.cartCalls++
	return nil
}

func (s *stubRemote) RemoveItem(ctx context.Context, itemID string) error {
	s.cartCalls++
	return nil
}

func (s *stubRemote) ApplyCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*domain.Coupon, decimal.Decimal, error) {
	s.cartCalls++
	if s.couponErr != nil {
		return nil, decimal.Zero, s.couponErr
	}
	return &domain.Coupon{Code: code}, decimal.NewFromInt(10), nil
}

type guestSession struct{}

func (guestSession) Authenticated() bool { return false }

type authedSession struct{}

func (authedSession) Authenticated() bool { return true }

func newGuestApp(t *testing.T) (*fiber.App, *stubRemote) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	remote := &stubRemote{products: map[string]*domain.Product{
		"p1": {ID: "p1", Title: "Wool Scarf", FinalPrice: decimal.RequireFromString("25")},
	}}
	cart := services.NewCartService(remote, guestSession{}, repos.NewCartRepo(db), nil)
	h := &handlers.CartHandler{Cart: cart, Catalog: remote}

	app := fiber.New()
	app.Get("/cart", h.View)
	app.Post("/cart/items", h.Add)
	app.Put("/cart/items/:id", h.Update)
	app.Delete("/cart/items/:id", h.Remove)
	app.Post("/cart/coupon", h.ApplyCoupon)
	app.Delete("/cart/coupon", h.RemoveCoupon)
	return app, remote
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestCartAddGuestFlow(t *testing.T) {
	app, remote := newGuestApp(t)

	status, body := doJSON(t, app, "POST", "/cart/items", `{"product_id":"p1","quantity":2}`)
	if status != fiber.StatusOK {
		t.Fatalf("want 200, got %d (%v)", status, body)
	}
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("want one line, got %v", body["items"])
	}
	if got := body["subtotal"]; got != "50" {
		t.Fatalf("subtotal: %v", got)
	}
	if remote.cartCalls != 0 {
		t.Fatalf("guest mutations must stay local, saw %d remote cart calls", remote.cartCalls)
	}
}

func TestCartAddValidation(t *testing.T) {
	app, _ := newGuestApp(t)

	status, _ := doJSON(t, app, "POST", "/cart/items", `{"quantity":2}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("missing product_id should 400, got %d", status)
	}
	status, _ = doJSON(t, app, "POST", "/cart/items", `{"product_id":"ghost"}`)
	if status != fiber.StatusBadGateway && status != fiber.StatusNotFound {
		t.Fatalf("unknown product should fail, got %d", status)
	}
}

func TestCouponRequiresLoginOverHTTP(t *testing.T) {
	app, remote := newGuestApp(t)

	status, body := doJSON(t, app, "POST", "/cart/coupon", `{"code":"SAVE10"}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("guest coupon should 401, got %d (%v)", status, body)
	}
	if remote.cartCalls != 0 {
		t.Fatal("guest coupon must not reach the server")
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "log in") {
		t.Fatalf("friendly message expected, got %q", msg)
	}
}

// The server's rejection message must reach the response body even though
// the service wraps the remote error on the way up.
func TestCouponRejectionSurfacesServerMessage(t *testing.T) {
	remote := &stubRemote{couponErr: &api.Error{Status: fiber.StatusUnprocessableEntity, Message: "coupon expired"}}
	cart := services.NewCartService(remote, authedSession{}, nil, nil)
	h := &handlers.CartHandler{Cart: cart, Catalog: remote}

	app := fiber.New()
	app.Post("/cart/coupon", h.ApplyCoupon)

	status, body := doJSON(t, app, "POST", "/cart/coupon", `{"code":"OLD10"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d (%v)", status, body)
	}
	if msg, _ := body["error"].(string); msg != "coupon expired" {
		t.Fatalf("server message should surface in the 422 body, got %q", msg)
	}
}

func TestCartUpdateNotFound(t *testing.T) {
	app, _ := newGuestApp(t)

	status, _ := doJSON(t, app, "PUT", "/cart/items/nope", `{"quantity":3}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("unknown line should 404, got %d", status)
	}
}
