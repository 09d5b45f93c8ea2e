// Package api is the single boundary to the central commerce API. All
// tolerance for the server's loose response envelopes lives here; the rest
// of the app only ever sees the canonical domain types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"velora/internal/domain"
)

// TokenSource supplies the current bearer token, or "" when no session exists.
type TokenSource interface {
	Token() string
}

type Client struct {
	base   string
	locale string
	http   *http.Client
	tokens TokenSource
}

func New(base, locale string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		locale: locale,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
	}
}

// Error carries the server's user-facing message when one was provided.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: request failed with status %d", e.Status)
}

// Message extracts a user-facing message from err, falling back to the given
// generic text when the server supplied none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// envelope is the common `{message, data}` wrapper the commerce API uses.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, *envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.locale)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, err
	}

	var env envelope
	_ = json.Unmarshal(raw, &env) // best effort; some endpoints return bare arrays

	if resp.StatusCode >= 400 {
		return nil, nil, &Error{Status: resp.StatusCode, Message: env.Message}
	}
	return raw, &env, nil
}

// FetchCart reads the authoritative cart state.
func (c *Client) FetchCart(ctx context.Context) ([]domain.CartItem, error) {
	raw, _, err := c.do(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	return normalizeCartItems(raw)
}

func (c *Client) AddItem(ctx context.Context, productID string, qty int) error {
	_, _, err := c.do(ctx, http.MethodPost, "/cart", map[string]any{
		"product_id": productID,
		"quantity":   qty,
	})
	return err
}

func (c *Client) UpdateItem(ctx context.Context, itemID string, qty int) error {
	_, _, err := c.do(ctx, http.MethodPut, "/cart/"+itemID, map[string]any{"quantity": qty})
	return err
}

func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/cart/"+itemID, nil)
	return err
}

// ApplyCoupon submits the code together with the current cart total. The
// discount comes back unclamped; clamping is the store's responsibility.
func (c *Client) ApplyCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*domain.Coupon, decimal.Decimal, error) {
	_, env, err := c.do(ctx, http.MethodPost, "/coupons/apply", map[string]any{
		"code":       code,
		"cart_total": cartTotal,
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	var data struct {
		DiscountAmount decimal.Decimal `json:"discount_amount"`
		Coupon         *domain.Coupon  `json:"coupon"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, decimal.Zero, err
	}
	coupon := data.Coupon
	if coupon == nil {
		coupon = &domain.Coupon{Code: code}
	}
	return coupon, data.DiscountAmount, nil
}

// Product fetches a catalog snapshot for one product.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	raw, env, err := c.do(ctx, http.MethodGet, "/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	var p domain.Product
	if len(env.Data) > 0 {
		err = json.Unmarshal(env.Data, &p)
	} else {
		err = json.Unmarshal(raw, &p)
	}
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &Error{Status: http.StatusNotFound, Message: "product not found"}
	}
	return &p, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	_, env, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}
	var data struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", nil, err
	}
	if data.Token == "" {
		return "", nil, &Error{Status: http.StatusBadGateway, Message: "login response missing token"}
	}
	return data.Token, data.User, nil
}

// OrderLine is one line of a checkout submission.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder submits the checkout. ClientTotal lets the server cross-check
// what the customer saw.
func (c *Client) PlaceOrder(ctx context.Context, lines []OrderLine, couponCode string, clientTotal decimal.Decimal) (string, error) {
	body := map[string]any{
		"items":        lines,
		"client_total": clientTotal,
	}
	if couponCode != "" {
		body["coupon_code"] = couponCode
	}
	_, env, err := c.do(ctx, http.MethodPost, "/orders", body)
	if err != nil {
		return "", err
	}
	var data struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &data)
	return data.ID, nil
}
