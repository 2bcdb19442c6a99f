package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Products are immutable once loaded.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Images        []string         `json:"images"`
	Category      string           `json:"category"`
	Tags          []string         `json:"tags"`
	InStock       bool             `json:"inStock"`
	Rating        float64          `json:"rating"`
	NumReviews    int              `json:"numReviews"`
	Featured      bool             `json:"featured,omitempty"`
	New           bool             `json:"new,omitempty"`
	BestSeller    bool             `json:"bestSeller,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the discounted price when one is set, else the list price
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether a discount price is set
func (p Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}

// DiscountPercent returns the whole-number percentage saved, or 0 without a discount
func (p Product) DiscountPercent() int64 {
	if p.DiscountPrice == nil || p.Price.IsZero() {
		return 0
	}
	saved := p.Price.Sub(*p.DiscountPrice).Div(p.Price).Mul(hundred)
	return saved.Round(0).IntPart()
}

// Validate checks the product invariants
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: price must not be negative", p.ID)
	}
	if p.DiscountPrice != nil {
		if p.DiscountPrice.IsNegative() {
			return fmt.Errorf("product %s: discount price must not be negative", p.ID)
		}
		if !p.DiscountPrice.LessThan(p.Price) {
			return fmt.Errorf("product %s: discount price must be lower than price", p.ID)
		}
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("product %s: at least one image is required", p.ID)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("product %s: rating must be between 0 and 5", p.ID)
	}
	if p.NumReviews < 0 {
		return fmt.Errorf("product %s: review count must not be negative", p.ID)
	}
	return nil
}

// HasTag reports whether the product carries the given tag
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
