package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product-and-quantity pairing in the cart
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns the effective price multiplied by the quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Address is used for both shipping and billing
type Address struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
	Phone      string `json:"phone" validate:"required"`
}

// CardDetails holds the in-house card form. Never persisted.
type CardDetails struct {
	Number string `json:"cardNumber" validate:"min=16"`
	Name   string `json:"cardName" validate:"required"`
	Expiry string `json:"expiry" validate:"expiry"`
	CVC    string `json:"cvc" validate:"min=3"`
}

// Last4 returns the last four characters of the card number
func (c CardDetails) Last4() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

// Identity is the signed-in user as stored under the "user" key
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

// OrderTotals is the priced breakdown of an order
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Order is materialized at confirmation time only and is not retained
type Order struct {
	ID              string      `json:"id"`
	Reference       string      `json:"reference"`
	Lines           []CartLine  `json:"lines"`
	ShippingMethod  string      `json:"shippingMethod"`
	PaymentMethod   string      `json:"paymentMethod"`
	CardLast4       string      `json:"cardLast4,omitempty"`
	ShippingAddress Address     `json:"shippingAddress"`
	BillingAddress  Address     `json:"billingAddress"`
	Email           string      `json:"email,omitempty"`
	Totals          OrderTotals `json:"totals"`
	PlacedAt        time.Time   `json:"placedAt"`
}

// Payment methods
const (
	PaymentCreditCard = "credit_card"
	PaymentPayPal     = "paypal"
)
