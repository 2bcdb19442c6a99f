package catalog

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/models"
)

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDefault_Lookups(t *testing.T) {
	c := Default()

	p, ok := c.GetProductByID("1")
	require.True(t, ok)
	assert.Equal(t, "Premium Wireless Headphones", p.Name)
	assert.Equal(t, "199.99", p.EffectivePrice().StringFixed(2))

	_, ok = c.GetProductByID("missing")
	assert.False(t, ok)

	_, err := c.Lookup("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, []string{"1", "2", "7"}, ids(c.GetFeaturedProducts()))
	assert.Equal(t, []string{"1", "3", "8"}, ids(c.GetBestSellers()))
	assert.Equal(t, []string{"4", "5"}, ids(c.GetNewArrivals()))
	assert.Equal(t, []string{"6"}, ids(c.GetProductsByCategory("Fashion")))
	assert.Empty(t, c.GetProductsByCategory("Garden"))
	assert.Equal(t, []string{"Electronics", "Wearables", "Fashion"}, c.Categories())
}

func TestNew_RejectsInvalidProducts(t *testing.T) {
	bad := decimal.RequireFromString("20")
	_, err := New([]models.Product{{
		ID:            "x",
		Price:         decimal.RequireFromString("10"),
		DiscountPrice: &bad,
		Images:        []string{"a"},
	}})
	assert.Error(t, err, "discount above price must be rejected")

	ok := models.Product{ID: "x", Price: decimal.RequireFromString("10"), Images: []string{"a"}}
	_, err = New([]models.Product{ok, ok})
	assert.Error(t, err, "duplicate ids must be rejected")

	_, err = New([]models.Product{{ID: "y", Price: decimal.RequireFromString("1")}})
	assert.Error(t, err, "products need an image")
}

func TestRelated(t *testing.T) {
	c := Default()

	related := c.Related("1", 0)
	assert.Len(t, related, DefaultRelatedLimit)
	assert.NotContains(t, ids(related), "1")
	for _, p := range related {
		assert.Equal(t, "Electronics", p.Category)
	}

	assert.Empty(t, c.Related("6", 4), "only product in its category")
	assert.Nil(t, c.Related("missing", 4))
}

func TestSearch(t *testing.T) {
	c := Default()

	t.Run("featured first by default", func(t *testing.T) {
		got, err := c.Search(Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "7", "3", "4", "5", "6", "8"}, ids(got))
	})

	t.Run("price range uses effective price", func(t *testing.T) {
		lo := decimal.RequireFromString("50")
		hi := decimal.RequireFromString("100")
		got, err := c.Search(Filter{MinPrice: &lo, MaxPrice: &hi, Sort: SortPriceAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"6", "8"}, ids(got))
	})

	t.Run("tag", func(t *testing.T) {
		got, err := c.Search(Filter{Tag: "wireless"})
		require.NoError(t, err)
		for _, p := range got {
			assert.True(t, p.HasTag("wireless"), "product %s", p.ID)
		}
		assert.Contains(t, ids(got), "1")
	})

	t.Run("price descending", func(t *testing.T) {
		got, err := c.Search(Filter{Categories: []string{"Electronics"}, Sort: SortPriceDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "2", "1", "7", "5", "8"}, ids(got))
	})

	t.Run("minimum rating floors the rating", func(t *testing.T) {
		got, err := c.Search(Filter{MinRating: 5})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("newest puts new arrivals first", func(t *testing.T) {
		got, err := c.Search(Filter{Sort: SortNewest})
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "5"}, ids(got)[:2])
	})

	t.Run("rating", func(t *testing.T) {
		got, err := c.Search(Filter{Sort: SortRating})
		require.NoError(t, err)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("unknown sort", func(t *testing.T) {
		_, err := c.Search(Filter{Sort: "cheapest"})
		assert.Error(t, err)
	})
}

func TestDiscountPercent(t *testing.T) {
	c := Default()

	p, _ := c.GetProductByID("1")
	assert.Equal(t, int64(20), p.DiscountPercent())

	p, _ = c.GetProductByID("2")
	assert.Equal(t, int64(0), p.DiscountPercent())
}
