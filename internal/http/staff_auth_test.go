package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"velora/internal/http/handlers"
	"velora/internal/repos"
	"velora/internal/services"
)

func newStaffApp(t *testing.T, passHash string) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	remote := &stubRemote{}
	cart := services.NewCartService(remote, guestSession{}, repos.NewCartRepo(db), nil)
	auth := &services.AuthService{Sessions: repos.NewSessionRepo(db)}
	h := &handlers.StaffHandler{
		Cart: cart, Wish: repos.NewWishlistRepo(db),
		Compare: &services.CompareService{}, Auth: auth,
	}

	app := fiber.New()
	staff := app.Group("/staff", handlers.RequireStaff(passHash))
	staff.Post("/reset", h.Reset)
	staff.Get("/state", h.State)
	return app
}

func TestStaffGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	app := newStaffApp(t, string(hash))

	// no passcode
	resp, err := app.Test(httptest.NewRequest("GET", "/staff/state", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("missing passcode should 403, got %d", resp.StatusCode)
	}

	// wrong passcode
	req := httptest.NewRequest("GET", "/staff/state", nil)
	req.Header.Set("X-Staff-Pass", "guess")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("wrong passcode should 403, got %d", resp.StatusCode)
	}

	// correct passcode
	req = httptest.NewRequest("POST", "/staff/reset", nil)
	req.Header.Set("X-Staff-Pass", "opensesame")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("correct passcode should 200, got %d", resp.StatusCode)
	}
}

func TestStaffDisabledWithoutHash(t *testing.T) {
	app := newStaffApp(t, "")
	resp, err := app.Test(httptest.NewRequest("GET", "/staff/state", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("staff routes should not exist without a hash, got %d", resp.StatusCode)
	}
}
