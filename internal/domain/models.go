package domain

import "github.com/shopspring/decimal"

// GuestIDPrefix marks cart line ids generated locally before the server has
// ever seen the line. Server-assigned ids never carry it.
const GuestIDPrefix = "local-"

type BundleOffer struct {
	Quantity    int             `json:"quantity"`
	BundlePrice decimal.Decimal `json:"bundle_price"`
	IsActive    bool            `json:"is_active"`
}

// Product is a read-only snapshot of the catalog entry as the commerce API
// returned it. Cart lines embed a copy; it may go stale relative to the server.
type Product struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`       // pre-discount unit price
	FinalPrice   decimal.Decimal `json:"final_price"` // post-discount unit price
	Image        string          `json:"image,omitempty"`
	BundleOffers []BundleOffer   `json:"bundle_offers,omitempty"`
}

type CartItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

// IsGuestLine reports whether the line was created locally and has no
// server-side identity yet.
func (i CartItem) IsGuestLine() bool {
	return len(i.ID) > len(GuestIDPrefix) && i.ID[:len(GuestIDPrefix)] == GuestIDPrefix
}

type Coupon struct {
	Code        string          `json:"code"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type,omitempty"`
	Value       decimal.Decimal `json:"value"`
}
