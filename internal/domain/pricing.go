package domain

import "github.com/shopspring/decimal"

// LineTotal returns the price of the whole line, not the unit price.
//
// An active bundle offer whose quantity exactly equals the line quantity wins
// and its bundle price is the line total as-is (it is never multiplied by the
// quantity again). Without an exact match the line falls back to
// final_price × quantity. Quantity 5 never uses a bundle defined for 4; when
// several active offers share a quantity the first one in catalog order wins.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil || i.Quantity < 1 {
		return decimal.Zero
	}
	for _, b := range i.Product.BundleOffers {
		if b.IsActive && b.Quantity == i.Quantity {
			return b.BundlePrice
		}
	}
	return i.Product.FinalPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal sums LineTotal over all lines.
func Subtotal(items []CartItem) decimal.Decimal {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.LineTotal())
	}
	return sub
}

// Total applies the discount to the subtotal, flooring at zero.
func Total(subtotal, discount decimal.Decimal) decimal.Decimal {
	t := subtotal.Sub(discount)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// ClampDiscount bounds a server-supplied discount to [0, subtotal] so a
// discount can never exceed the cart value.
func ClampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}
