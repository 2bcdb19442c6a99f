// Package catalog is the read-only product source. All lookups are pure and
// operate over a fixed in-memory list; callers receive copies.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/storefront/internal/models"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// DefaultRelatedLimit matches the product page's related strip
const DefaultRelatedLimit = 4

// Sort orders accepted by Search
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
	SortRating    = "rating"
)

// Filter narrows and orders a product listing
type Filter struct {
	Categories []string
	Tag        string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinRating  int
	Sort       string
}

type Catalog struct {
	products []models.Product
	byID     map[string]int
}

// New builds a catalog from the given products, rejecting invalid or duplicate entries
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default returns the built-in storefront catalog
func Default() *Catalog {
	c, err := New(seedProducts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) All() []models.Product {
	return c.filter(func(models.Product) bool { return true })
}

// GetProductByID looks up a product, reporting whether it exists
func (c *Catalog) GetProductByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Lookup is GetProductByID returning ErrNotFound for unknown ids
func (c *Catalog) Lookup(id string) (models.Product, error) {
	p, ok := c.GetProductByID(id)
	if !ok {
		return models.Product{}, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return p, nil
}

func (c *Catalog) GetProductsByCategory(category string) []models.Product {
	return c.filter(func(p models.Product) bool { return p.Category == category })
}

func (c *Catalog) GetFeaturedProducts() []models.Product {
	return c.filter(func(p models.Product) bool { return p.Featured })
}

func (c *Catalog) GetBestSellers() []models.Product {
	return c.filter(func(p models.Product) bool { return p.BestSeller })
}

func (c *Catalog) GetNewArrivals() []models.Product {
	return c.filter(func(p models.Product) bool { return p.New })
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Related returns up to limit other products from the same category
func (c *Catalog) Related(id string, limit int) []models.Product {
	p, ok := c.GetProductByID(id)
	if !ok {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	related := c.filter(func(o models.Product) bool {
		return o.Category == p.Category && o.ID != p.ID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

// Search applies the listing filters then the requested sort order
func (c *Catalog) Search(f Filter) ([]models.Product, error) {
	categories := make(map[string]bool, len(f.Categories))
	for _, cat := range f.Categories {
		categories[cat] = true
	}

	result := c.filter(func(p models.Product) bool {
		if len(categories) > 0 && !categories[p.Category] {
			return false
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			return false
		}
		price := p.EffectivePrice()
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			return false
		}
		if f.MinRating > 0 && int(math.Floor(p.Rating)) < f.MinRating {
			return false
		}
		return true
	})

	switch f.Sort {
	case "", SortFeatured:
		result = partition(result, func(p models.Product) bool { return p.Featured })
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice().LessThan(result[j].EffectivePrice())
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice().GreaterThan(result[j].EffectivePrice())
		})
	case SortNewest:
		result = partition(result, func(p models.Product) bool { return p.New })
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	default:
		return nil, fmt.Errorf("unsupported sort order: %s", f.Sort)
	}

	return result, nil
}

func (c *Catalog) filter(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// partition moves matching products to the front, preserving relative order
func partition(products []models.Product, first func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	var rest []models.Product
	for _, p := range products {
		if first(p) {
			out = append(out, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(out, rest...)
}
