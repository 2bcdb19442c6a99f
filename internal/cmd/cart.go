package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/cart"
	"github.com/matthieukhl/storefront/internal/pricing"
)

var addQuantity int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change the cart",
	Long: `Show and change the cart. The cart is saved after every change and
restored on the next run.`,
	RunE: showCart,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cart contents and totals",
	RunE:  showCart,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  addToCart,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  removeFromCart,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set the quantity of a product; 0 removes it",
	Args:  cobra.ExactArgs(2),
	RunE:  updateCartQuantity,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  clearCart,
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartUpdateCmd, cartClearCmd)

	cartAddCmd.Flags().IntVar(&addQuantity, "qty", 1, "Quantity to add")
}

func showCart(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	printCart(cmd.OutOrStdout(), a.Cart.State())
	return nil
}

func addToCart(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Catalog.Lookup(args[0])
	if err != nil {
		return err
	}
	if err := a.Cart.AddToCart(p, addQuantity); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🛒 Added %d × %s\n\n", addQuantity, p.Name)
	printCart(out, a.Cart.State())
	return nil
}

func removeFromCart(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Cart.RemoveFromCart(args[0]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🗑️  Removed product #%s\n\n", args[0])
	printCart(out, a.Cart.State())
	return nil
}

func updateCartQuantity(cmd *cobra.Command, args []string) error {
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", args[1], err)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Cart.UpdateQuantity(args[0], qty); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✏️  Product #%s quantity set to %d\n\n", args[0], qty)
	printCart(out, a.Cart.State())
	return nil
}

func clearCart(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Cart.ClearCart(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "🧹 Cart cleared")
	return nil
}

func printCart(out io.Writer, state cart.State) {
	if state.IsEmpty() {
		fmt.Fprintln(out, "🛒 Your cart is empty")
		return
	}

	fmt.Fprintf(out, "🛒 %d item%s in your cart\n", state.ItemCount, plural(state.ItemCount))
	for _, l := range state.Lines {
		fmt.Fprintf(out, "  #%-3s %-32s %3d × %-10s %s\n",
			l.Product.ID, l.Product.Name, l.Quantity,
			pricing.Money(l.Product.EffectivePrice()), pricing.Money(l.LineTotal()))
	}
	fmt.Fprintf(out, "  Subtotal: %s\n", pricing.Money(state.Total))

	if more := pricing.AmountToFreeShipping(state.Total); more.IsPositive() {
		fmt.Fprintf(out, "  Add %s more for free standard shipping\n", pricing.Money(more))
	} else {
		fmt.Fprintln(out, "  ✅ Free standard shipping")
	}
}
