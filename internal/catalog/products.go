package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/storefront/internal/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

const imgParams = "?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"

func img(id string) string {
	return "https://images.unsplash.com/" + id + imgParams
}

// seedProducts is the fixed storefront catalog
var seedProducts = []models.Product{
	{
		ID:            "1",
		Name:          "Premium Wireless Headphones",
		Description:   "Experience crystal-clear sound with our premium wireless headphones. Features active noise cancellation, 30-hour battery life, and comfortable over-ear design.",
		Price:         price("249.99"),
		DiscountPrice: discount("199.99"),
		Images: []string{
			img("photo-1505740420928-5e560c06d30e"),
			img("photo-1572536147248-ac59a8abfa4b"),
		},
		Category:   "Electronics",
		Tags:       []string{"headphones", "wireless", "audio"},
		InStock:    true,
		Rating:     4.8,
		NumReviews: 127,
		Featured:   true,
		BestSeller: true,
	},
	{
		ID:          "2",
		Name:        "Smartphone Pro Max",
		Description: "The latest flagship smartphone with a 6.7-inch OLED display, 5G connectivity, triple camera system, and all-day battery life.",
		Price:       price("1099.99"),
		Images: []string{
			img("photo-1592750475338-74b7b21a0d67"),
			img("photo-1587033411391-5d9e51cce126"),
		},
		Category:   "Electronics",
		Tags:       []string{"smartphone", "mobile", "5G"},
		InStock:    true,
		Rating:     4.6,
		NumReviews: 84,
		Featured:   true,
	},
	{
		ID:          "3",
		Name:        "Ultra Slim Laptop",
		Description: "Powerful and lightweight laptop with a 14-inch display, all-day battery life, and fast SSD storage for work and play.",
		Price:       price("1499.99"),
		Images: []string{
			img("photo-1496181133206-80ce9b88a853"),
			img("photo-1525547719571-a2d4ac8945e2"),
		},
		Category:   "Electronics",
		Tags:       []string{"laptop", "computer", "ultrabook"},
		InStock:    true,
		Rating:     4.7,
		NumReviews: 62,
		BestSeller: true,
	},
	{
		ID:          "4",
		Name:        "Smart Fitness Watch",
		Description: "Track your workouts, heart rate, sleep and more with this water-resistant smartwatch featuring GPS and a bright always-on display.",
		Price:       price("199.99"),
		Images: []string{
			img("photo-1523275335684-37898b6baf30"),
			img("photo-1508685096489-7aacd43bd3b1"),
		},
		Category:   "Wearables",
		Tags:       []string{"smartwatch", "fitness", "health"},
		InStock:    true,
		Rating:     4.5,
		NumReviews: 189,
		New:        true,
	},
	{
		ID:          "5",
		Name:        "Wireless Earbuds",
		Description: "True wireless earbuds with immersive sound, touch controls, and a compact charging case for up to 24 hours of listening.",
		Price:       price("129.99"),
		Images: []string{
			img("photo-1590658268037-6bf12165a8df"),
			img("photo-1572569511254-d8f925fe2cbb"),
		},
		Category:   "Electronics",
		Tags:       []string{"earbuds", "wireless", "audio"},
		InStock:    true,
		Rating:     4.4,
		NumReviews: 211,
		New:        true,
	},
	{
		ID:            "6",
		Name:          "Designer Backpack",
		Description:   "Stylish and functional backpack with laptop compartment, water-resistant material, and ergonomic design for daily use.",
		Price:         price("89.99"),
		DiscountPrice: discount("74.99"),
		Images: []string{
			img("photo-1622560480605-d83c853bc5c3"),
			img("photo-1547949003-9792a18a2601"),
		},
		Category:   "Fashion",
		Tags:       []string{"backpack", "bag", "accessories"},
		InStock:    true,
		Rating:     4.3,
		NumReviews: 75,
	},
	{
		ID:          "7",
		Name:        "Premium Bluetooth Speaker",
		Description: "Powerful portable speaker with rich bass, 360-degree sound, and 12-hour battery life. Water-resistant for outdoor use.",
		Price:       price("149.99"),
		Images: []string{
			img("photo-1608043152269-423dbba4e7e1"),
			img("photo-1608043152269-423dbba4e7e1"),
		},
		Category:   "Electronics",
		Tags:       []string{"speaker", "bluetooth", "audio"},
		InStock:    true,
		Rating:     4.6,
		NumReviews: 93,
		Featured:   true,
	},
	{
		ID:            "8",
		Name:          "Mechanical Keyboard",
		Description:   "Premium mechanical keyboard with customizable RGB lighting, N-key rollover, and durable aluminum construction.",
		Price:         price("129.99"),
		DiscountPrice: discount("99.99"),
		Images: []string{
			img("photo-1618384887929-16ec33fab9ef"),
			img("photo-1587829741301-dc798b83add3"),
		},
		Category:   "Electronics",
		Tags:       []string{"keyboard", "gaming", "computer accessories"},
		InStock:    true,
		Rating:     4.7,
		NumReviews: 121,
		BestSeller: true,
	},
}
