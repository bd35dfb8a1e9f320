package checkout

import (
	"fmt"
	"strings"

	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

// Pricing holds the rates applied to staged items.
type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Totals is a priced checkout. Amounts are rounded to cents.
type Totals struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// DefaultPricing is 12% tax and 9.99 shipping, waived above 100.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.12"),
		ShippingFee:           decimal.RequireFromString("9.99"),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

func PricingFromConfig(cfg config.CheckoutConfig) (Pricing, error) {
	parse := func(name, raw string) (decimal.Decimal, error) {
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse %s %q: %w", name, raw, err)
		}
		if value.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s must not be negative", name)
		}
		return value, nil
	}
	var (
		p   Pricing
		err error
	)
	if p.TaxRate, err = parse("tax rate", cfg.TaxRate); err != nil {
		return Pricing{}, err
	}
	if p.ShippingFee, err = parse("shipping fee", cfg.ShippingFee); err != nil {
		return Pricing{}, err
	}
	if p.FreeShippingThreshold, err = parse("free shipping threshold", cfg.FreeShippingThreshold); err != nil {
		return Pricing{}, err
	}
	return p, nil
}

// Quote prices items. Shipping is free only when the subtotal is strictly
// above the threshold.
func (p Pricing) Quote(items []models.CheckoutItem) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}
	return p.QuoteSubtotal(subtotal, count)
}

// QuoteSubtotal prices an already summed subtotal.
func (p Pricing) QuoteSubtotal(subtotal decimal.Decimal, itemCount int) Totals {
	tax := subtotal.Mul(p.TaxRate)
	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shipping)
	return Totals{
		ItemCount: itemCount,
		Subtotal:  subtotal.Round(2),
		Tax:       tax.Round(2),
		Shipping:  shipping.Round(2),
		Total:     total.Round(2),
	}
}
