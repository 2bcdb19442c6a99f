// Package pricing turns a cart total and a shipping method into the amounts
// charged at checkout. Every function is pure; results must be recomputed
// whenever the cart or the selected method changes.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/storefront/internal/models"
)

type ShippingMethod string

const (
	Standard ShippingMethod = "standard"
	Express  ShippingMethod = "express"
)

var (
	// FreeShippingThreshold is exclusive: a total must exceed it to ship free
	FreeShippingThreshold = decimal.RequireFromString("50")
	StandardShippingCost  = decimal.RequireFromString("4.99")
	ExpressShippingCost   = decimal.RequireFromString("9.99")
	TaxRate               = decimal.RequireFromString("0.07")
)

// ParseShippingMethod validates a method name
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch ShippingMethod(s) {
	case Standard, Express:
		return ShippingMethod(s), nil
	default:
		return "", fmt.Errorf("unsupported shipping method: %s", s)
	}
}

// Label is the display name of the method
func (m ShippingMethod) Label() string {
	if m == Express {
		return "Express Shipping"
	}
	return "Standard Shipping"
}

// Estimate is the advertised delivery window
func (m ShippingMethod) Estimate() string {
	if m == Express {
		return "Delivery in 1-2 business days"
	}
	return "Delivery in 3-5 business days"
}

// ShippingCost returns the flat express rate, or the standard rate unless the
// total is strictly greater than the free-shipping threshold
func ShippingCost(total decimal.Decimal, method ShippingMethod) decimal.Decimal {
	if method == Express {
		return ExpressShippingCost
	}
	if total.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return StandardShippingCost
}

// Tax applies the flat rate to the subtotal only
func Tax(total decimal.Decimal) decimal.Decimal {
	return total.Mul(TaxRate)
}

func OrderTotal(total, shippingCost, tax decimal.Decimal) decimal.Decimal {
	return total.Add(shippingCost).Add(tax)
}

// AmountToFreeShipping is how much more must be spent before standard
// shipping becomes free. Zero once the threshold is exceeded.
func AmountToFreeShipping(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FreeShippingThreshold.Sub(total).Add(decimal.New(1, -2))
}

// Breakdown is a priced quote for a cart total and shipping method
type Breakdown struct {
	Method   ShippingMethod
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote computes the full breakdown
func Quote(total decimal.Decimal, method ShippingMethod) Breakdown {
	shipping := ShippingCost(total, method)
	tax := Tax(total)
	return Breakdown{
		Method:   method,
		Subtotal: total,
		Shipping: shipping,
		Tax:      tax,
		Total:    OrderTotal(total, shipping, tax),
	}
}

// Equal reports whether two quotes charge the same amounts
func (b Breakdown) Equal(o Breakdown) bool {
	return b.Method == o.Method &&
		b.Subtotal.Equal(o.Subtotal) &&
		b.Shipping.Equal(o.Shipping) &&
		b.Tax.Equal(o.Tax) &&
		b.Total.Equal(o.Total)
}

// Totals converts the quote for an order record
func (b Breakdown) Totals() models.OrderTotals {
	return models.OrderTotals{
		Subtotal: b.Subtotal,
		Shipping: b.Shipping,
		Tax:      b.Tax,
		Total:    b.Total,
	}
}

// Money formats an amount for display
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
