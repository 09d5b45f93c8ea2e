package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"velora/internal/api"
)

var ErrEmptyCart = errors.New("cart is empty")

// CheckoutRemote is the slice of the commerce API checkout needs.
type CheckoutRemote interface {
	PlaceOrder(ctx context.Context, lines []api.OrderLine, couponCode string, clientTotal decimal.Decimal) (string, error)
}

type CheckoutService struct {
	Cart    *CartService
	Remote  CheckoutRemote
	Session Session
}

// Place submits the current cart as an order. On success the local cart and
// coupon are cleared; in authenticated mode the cart is then refetched since
// the server empties it as part of order placement.
func (s *CheckoutService) Place(ctx context.Context) (string, error) {
	if s.Session == nil || !s.Session.Authenticated() {
		return "", ErrLoginRequired
	}
	items := s.Cart.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	lines := make([]api.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, api.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	couponCode := ""
	if c := s.Cart.Coupon(); c != nil {
		couponCode = c.Code
	}

	orderID, err := s.Remote.PlaceOrder(ctx, lines, couponCode, s.Cart.Total())
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	s.Cart.Clear()
	_ = s.Cart.Fetch(ctx)
	return orderID, nil
}
