package models

import "github.com/shopspring/decimal"

// CartItem is one line of the shopping cart. Quantity is always >= 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is the selling price times quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Product.SellingPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CheckoutItem is a snapshot of a product committed to a checkout attempt.
type CheckoutItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is the selling price times quantity.
func (c CheckoutItem) LineTotal() decimal.Decimal {
	return c.Product.SellingPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
