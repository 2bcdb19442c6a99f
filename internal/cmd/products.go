package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/catalog"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/pricing"
)

var (
	listCategory    string
	listTag         string
	listFeatured    bool
	listBestSellers bool
	listNew         bool
	listSort        string
	listMinPrice    string
	listMaxPrice    string
	listMinRating   int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List catalog products, optionally filtered and sorted.

Sort orders: featured (default), price-asc, price-desc, newest, rating.
Prices filter on the price actually charged, i.e. the discount price when set.`,
	RunE: listProducts,
}

var productsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE:  listCategories,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a product and related products",
	Args:  cobra.ExactArgs(1),
	RunE:  showProduct,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsCategoriesCmd)

	productsListCmd.Flags().StringVar(&listCategory, "category", "", "Comma-separated categories to include")
	productsListCmd.Flags().StringVar(&listTag, "tag", "", "Only products carrying this tag")
	productsListCmd.Flags().BoolVar(&listFeatured, "featured", false, "Only featured products")
	productsListCmd.Flags().BoolVar(&listBestSellers, "best-sellers", false, "Only best sellers")
	productsListCmd.Flags().BoolVar(&listNew, "new", false, "Only new arrivals")
	productsListCmd.Flags().StringVar(&listSort, "sort", catalog.SortFeatured, "Sort order (featured|price-asc|price-desc|newest|rating)")
	productsListCmd.Flags().StringVar(&listMinPrice, "min-price", "", "Minimum price")
	productsListCmd.Flags().StringVar(&listMaxPrice, "max-price", "", "Maximum price")
	productsListCmd.Flags().IntVar(&listMinRating, "min-rating", 0, "Minimum star rating (1-5)")
}

func listProducts(cmd *cobra.Command, args []string) error {
	filter := catalog.Filter{Sort: listSort, Tag: listTag, MinRating: listMinRating}
	if listCategory != "" {
		for _, c := range strings.Split(listCategory, ",") {
			filter.Categories = append(filter.Categories, strings.TrimSpace(c))
		}
	}

	var err error
	if filter.MinPrice, err = parsePrice("min-price", listMinPrice); err != nil {
		return err
	}
	if filter.MaxPrice, err = parsePrice("max-price", listMaxPrice); err != nil {
		return err
	}

	products, err := catalog.Default().Search(filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	shown := 0
	for _, p := range products {
		if (listFeatured && !p.Featured) || (listBestSellers && !p.BestSeller) || (listNew && !p.New) {
			continue
		}
		printProductRow(out, p)
		shown++
	}
	fmt.Fprintf(out, "\n%d product%s\n", shown, plural(shown))
	return nil
}

func listCategories(cmd *cobra.Command, args []string) error {
	c := catalog.Default()
	for _, category := range c.Categories() {
		n := len(c.GetProductsByCategory(category))
		fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %d product%s\n", category, n, plural(n))
	}
	return nil
}

func parsePrice(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return &d, nil
}

func showProduct(cmd *cobra.Command, args []string) error {
	c := catalog.Default()
	p, err := c.Lookup(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (#%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "  %s\n", p.Description)
	fmt.Fprintf(out, "  Price:    %s\n", priceLabel(p))
	fmt.Fprintf(out, "  Category: %s\n", p.Category)
	fmt.Fprintf(out, "  Rating:   %.1f (%d reviews)\n", p.Rating, p.NumReviews)
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	if p.InStock {
		fmt.Fprintln(out, "  ✅ In stock")
	} else {
		fmt.Fprintln(out, "  ❌ Out of stock")
	}

	related := c.Related(p.ID, catalog.DefaultRelatedLimit)
	if len(related) > 0 {
		fmt.Fprintln(out, "\nYou may also like:")
		for _, r := range related {
			printProductRow(out, r)
		}
	}
	return nil
}

func printProductRow(out io.Writer, p models.Product) {
	var badges []string
	if p.Featured {
		badges = append(badges, "featured")
	}
	if p.New {
		badges = append(badges, "new")
	}
	if p.BestSeller {
		badges = append(badges, "best seller")
	}
	line := fmt.Sprintf("  #%-3s %-32s %-22s ★%.1f", p.ID, p.Name, priceLabel(p), p.Rating)
	if len(badges) > 0 {
		line += "  [" + strings.Join(badges, ", ") + "]"
	}
	fmt.Fprintln(out, line)
}

func priceLabel(p models.Product) string {
	if !p.HasDiscount() {
		return pricing.Money(p.Price)
	}
	return fmt.Sprintf("%s (was %s, -%d%%)", pricing.Money(p.EffectivePrice()), pricing.Money(p.Price), p.DiscountPercent())
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
