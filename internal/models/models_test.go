package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductPricing(t *testing.T) {
	discount := money("74.99")
	p := Product{ID: "6", Price: money("89.99"), DiscountPrice: &discount, Images: []string{"a.jpg"}}

	assert.True(t, p.HasDiscount())
	assert.True(t, p.EffectivePrice().Equal(discount))
	assert.Equal(t, int64(17), p.DiscountPercent())

	line := CartLine{Product: p, Quantity: 3}
	assert.True(t, line.LineTotal().Equal(money("224.97")))

	p.DiscountPrice = nil
	assert.True(t, p.EffectivePrice().Equal(money("89.99")))
	assert.Equal(t, int64(0), p.DiscountPercent())
}

func TestProductValidate(t *testing.T) {
	valid := func() Product {
		return Product{ID: "1", Price: money("10"), Images: []string{"a.jpg"}, Rating: 4.5}
	}
	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Product)
	}{
		{"missing id", func(p *Product) { p.ID = "" }},
		{"negative price", func(p *Product) { p.Price = money("-1") }},
		{"discount not below price", func(p *Product) { d := money("10"); p.DiscountPrice = &d }},
		{"no images", func(p *Product) { p.Images = nil }},
		{"rating above five", func(p *Product) { p.Rating = 5.5 }},
		{"negative reviews", func(p *Product) { p.NumReviews = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestCardLast4(t *testing.T) {
	assert.Equal(t, "4242", CardDetails{Number: "4000056655664242"}.Last4())
	assert.Equal(t, "12", CardDetails{Number: "12"}.Last4())
}
