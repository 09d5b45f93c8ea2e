package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"velora/internal/api"
	"velora/internal/repos"
	"velora/internal/services"
)

type fakeOrders struct {
	mu      sync.Mutex
	lines   []api.OrderLine
	coupon  string
	total   decimal.Decimal
	err     error
	orderID string
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, lines []api.OrderLine, couponCode string, clientTotal decimal.Decimal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.lines, f.coupon, f.total = lines, couponCode, clientTotal
	return f.orderID, nil
}

func TestCheckoutRequiresLogin(t *testing.T) {
	cart := services.NewCartService(newFakeRemote(), fakeSession(false), nil, &recordingNotifier{})
	svc := &services.CheckoutService{Cart: cart, Remote: &fakeOrders{}, Session: fakeSession(false)}

	_, err := svc.Place(context.Background())
	if !errors.Is(err, services.ErrLoginRequired) {
		t.Fatalf("want ErrLoginRequired, got %v", err)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	cart := services.NewCartService(newFakeRemote(), fakeSession(true), nil, &recordingNotifier{})
	svc := &services.CheckoutService{Cart: cart, Remote: &fakeOrders{}, Session: fakeSession(true)}

	_, err := svc.Place(context.Background())
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutSubmitsCartAndClears(t *testing.T) {
	remote := newFakeRemote(serverLine("srv-1", "p1", 2, "100"))
	remote.discount = dec("50")
	cart := services.NewCartService(remote, fakeSession(true), nil, &recordingNotifier{})
	ctx := context.Background()
	if err := cart.Fetch(ctx); err != nil {
		t.Fatal(err)
	}
	if err := cart.ApplyCoupon(ctx, "SAVE50"); err != nil {
		t.Fatal(err)
	}

	orders := &fakeOrders{orderID: "ord-9"}
	svc := &services.CheckoutService{Cart: cart, Remote: orders, Session: fakeSession(true)}

	id, err := svc.Place(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if id != "ord-9" {
		t.Fatalf("order id: %q", id)
	}
	if len(orders.lines) != 1 || orders.lines[0].ProductID != "p1" || orders.lines[0].Quantity != 2 {
		t.Fatalf("submitted lines: %+v", orders.lines)
	}
	if orders.coupon != "SAVE50" {
		t.Fatalf("coupon code: %q", orders.coupon)
	}
	if !orders.total.Equal(dec("150")) { // 200 subtotal − 50 discount
		t.Fatalf("client total: %s", orders.total)
	}
	if cart.Coupon() != nil || !cart.Discount().IsZero() {
		t.Fatal("coupon must be cleared after checkout")
	}
}

func TestGuestCartSurvivesRestart(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	repo := repos.NewCartRepo(db)

	first := services.NewCartService(newFakeRemote(), fakeSession(false), repo, &recordingNotifier{})
	if err := first.AddToCart(context.Background(), product("p1", "19.90"), 3); err != nil {
		t.Fatal(err)
	}

	// a fresh service over the same storage sees the same lines
	second := services.NewCartService(newFakeRemote(), fakeSession(false), repo, &recordingNotifier{})
	items := second.Items()
	if len(items) != 1 || items[0].ProductID != "p1" || items[0].Quantity != 3 {
		t.Fatalf("restored cart: %+v", items)
	}
	// the coupon is intentionally not persisted
	if second.Coupon() != nil || !second.Discount().IsZero() {
		t.Fatal("coupon state must be ephemeral")
	}
}
