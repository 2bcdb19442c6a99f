package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/checkout"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/pricing"
)

// addressFlags maps flag names to address form fields
var addressFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"first-name", "firstName", "First name"},
	{"last-name", "lastName", "Last name"},
	{"address", "address", "Street address"},
	{"city", "city", "City"},
	{"state", "state", "State / province"},
	{"postal-code", "postalCode", "Postal code"},
	{"country", "country", "Country"},
	{"phone", "phone", "Phone number"},
}

var (
	shippingValues = map[string]*string{}
	billingFields  map[string]string
	shippingMethod string
	paymentMethod  string
	card           models.CardDetails
	placeOrder     bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out the cart",
	Long: `Walk the cart through shipping, payment and review.

Without --yes the command stops at review and prints the order summary.
With --yes the order is placed and the cart is emptied.

Billing defaults to the shipping address. Pass --billing to give a different
one, e.g. --billing firstName=Jane,address="1 Side St",city=Springfield,...`,
	RunE: runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)

	flags := checkoutCmd.Flags()
	for _, f := range addressFlags {
		shippingValues[f.field] = flags.String(f.flag, "", f.usage+" (shipping)")
	}
	flags.StringToStringVar(&billingFields, "billing", nil, "Billing address fields (firstName, lastName, address, city, state, postalCode, country, phone)")
	flags.StringVar(&shippingMethod, "shipping-method", string(pricing.Standard), "Shipping method (standard|express)")
	flags.StringVar(&paymentMethod, "payment", models.PaymentCreditCard, "Payment method (credit_card|paypal)")
	flags.StringVar(&card.Number, "card-number", "", "Card number")
	flags.StringVar(&card.Name, "card-name", "", "Name on card")
	flags.StringVar(&card.Expiry, "expiry", "", "Card expiry (MM/YY)")
	flags.StringVar(&card.CVC, "cvc", "", "Card security code")
	flags.BoolVar(&placeOrder, "yes", false, "Place the order after review")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if a.Cart.State().IsEmpty() {
		return fmt.Errorf("cannot check out: %w", checkout.ErrEmptyCart)
	}

	m := a.NewCheckout()

	// Shipping
	for _, f := range addressFlags {
		if cmd.Flags().Changed(f.flag) {
			if err := m.SetShippingField(f.field, *shippingValues[f.field]); err != nil {
				return err
			}
		}
	}
	if err := m.SetShippingMethod(shippingMethod); err != nil {
		return err
	}
	if err := m.ContinueToPayment(); err != nil {
		return describe(err)
	}
	fmt.Fprintln(out, "📦 Shipping details complete")

	// Payment
	if err := m.SetPaymentMethod(paymentMethod); err != nil {
		return err
	}
	if err := m.SetCardDetails(card); err != nil {
		return err
	}
	if len(billingFields) > 0 {
		if err := m.SetSameBillingAddress(false); err != nil {
			return err
		}
		for _, name := range sortedKeys(billingFields) {
			if err := m.SetBillingField(name, billingFields[name]); err != nil {
				return err
			}
		}
	}
	if err := m.ContinueToReview(); err != nil {
		return describe(err)
	}
	fmt.Fprintln(out, "💳 Payment details complete")

	// Review
	printReview(out, m)
	if !placeOrder {
		fmt.Fprintln(out, "\nℹ️  Re-run with --yes to place this order")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintln(out, "\n⏳ Placing order...")
	order, err := m.PlaceOrder(ctx)
	if err != nil {
		if errors.Is(err, checkout.ErrQuoteChanged) {
			quote := m.Quote()
			return fmt.Errorf("%w: new total is %s, please review again", err, pricing.Money(quote.Total))
		}
		return err
	}

	printConfirmation(out, order)
	return nil
}

// describe turns a validation failure into the message shown to the shopper
func describe(err error) error {
	var ve *checkout.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%s: %s", ve.Title, ve.Message)
	}
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printReview(out io.Writer, m *checkout.Machine) {
	form := m.Form()
	quote, _ := m.ReviewedQuote()

	fmt.Fprintln(out, "\n🧾 Review your order")
	fmt.Fprintf(out, "  Ship to:  %s\n", formatAddress(form.Shipping))
	fmt.Fprintf(out, "  Method:   %s (%s)\n", quote.Method.Label(), quote.Method.Estimate())
	if form.SameBillingAddress {
		fmt.Fprintln(out, "  Bill to:  same as shipping")
	} else {
		fmt.Fprintf(out, "  Bill to:  %s\n", formatAddress(form.Billing))
	}
	if form.PaymentMethod == models.PaymentPayPal {
		fmt.Fprintln(out, "  Payment:  PayPal")
	} else {
		fmt.Fprintf(out, "  Payment:  card ending %s\n", form.Card.Last4())
	}
	printQuote(out, quote)
}

func printQuote(out io.Writer, q pricing.Breakdown) {
	fmt.Fprintf(out, "  Subtotal: %s\n", pricing.Money(q.Subtotal))
	if q.Shipping.IsZero() {
		fmt.Fprintln(out, "  Shipping: Free")
	} else {
		fmt.Fprintf(out, "  Shipping: %s\n", pricing.Money(q.Shipping))
	}
	fmt.Fprintf(out, "  Tax:      %s\n", pricing.Money(q.Tax))
	fmt.Fprintf(out, "  Total:    %s\n", pricing.Money(q.Total))
}

func printConfirmation(out io.Writer, order models.Order) {
	fmt.Fprintln(out, "✅ Order placed. Thank you!")
	fmt.Fprintf(out, "  Order:     %s\n", order.ID)
	fmt.Fprintf(out, "  Reference: %s\n", order.Reference)
	fmt.Fprintf(out, "  Charged:   %s\n", pricing.Money(order.Totals.Total))
	if order.Email != "" {
		fmt.Fprintf(out, "  A confirmation will be sent to %s\n", order.Email)
	}
}

func formatAddress(a models.Address) string {
	return fmt.Sprintf("%s %s, %s, %s, %s %s, %s", a.FirstName, a.LastName, a.Address, a.City, a.State, a.PostalCode, a.Country)
}
