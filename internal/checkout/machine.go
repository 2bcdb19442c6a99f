// Package checkout sequences the shipping, payment, review and confirmation
// steps of placing an order. The machine reads the cart but only ever
// mutates it through a single ClearCart call once the order is accepted.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/cart"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/pricing"
	"github.com/matthieukhl/storefront/internal/types"
)

type Step string

const (
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepReview       Step = "review"
	StepConfirmation Step = "confirmation"
)

// DefaultCountry prefills both address forms
const DefaultCountry = "United States"

const (
	sectionShipping = "shipping"
	sectionBilling  = "billing"
	sectionPayment  = "payment"
)

var (
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrOrderInFlight     = errors.New("order submission already in progress")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrQuoteChanged      = errors.New("order total changed since review")
)

// Cart is the read view of the cart engine plus the one mutation checkout
// is allowed to make
type Cart interface {
	State() cart.State
	ClearCart() error
}

// Form is the checkout form state. Card details live only here and are never
// persisted.
type Form struct {
	Shipping           models.Address
	Billing            models.Address
	SameBillingAddress bool
	ShippingMethod     pricing.ShippingMethod
	PaymentMethod      string
	Card               models.CardDetails
}

type Machine struct {
	mu         sync.Mutex
	step       Step
	processing bool
	form       Form
	email      string
	frozen     *pricing.Breakdown
	order      *models.Order

	cart      Cart
	submitter types.OrderSubmitter
	logger    *zap.Logger
}

// New starts a checkout at the shipping step with default form values
func New(c Cart, submitter types.OrderSubmitter, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	blank := models.Address{Country: DefaultCountry}
	return &Machine{
		step: StepShipping,
		form: Form{
			Shipping:           blank,
			Billing:            blank,
			SameBillingAddress: true,
			ShippingMethod:     pricing.Standard,
			PaymentMethod:      models.PaymentCreditCard,
		},
		cart:      c,
		submitter: submitter,
		logger:    logger,
	}
}

// Prefill seeds the name fields from the signed-in shopper and records the
// email for the order
func (m *Machine) Prefill(id models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	first, last := splitName(id.Name)
	for _, addr := range []*models.Address{&m.form.Shipping, &m.form.Billing} {
		if addr.FirstName == "" {
			addr.FirstName = first
		}
		if addr.LastName == "" {
			addr.LastName = last
		}
	}
	m.email = id.Email
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Processing reports whether an order submission is in flight
func (m *Machine) Processing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processing
}

// Form returns a copy of the current form
func (m *Machine) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Order returns the confirmed order once the machine reaches confirmation
func (m *Machine) Order() (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		return models.Order{}, false
	}
	return *m.order, true
}

// Quote prices the live cart with the selected shipping method
func (m *Machine) Quote() pricing.Breakdown {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveQuote(m.cart.State())
}

// ReviewedQuote returns the quote captured on entering review
func (m *Machine) ReviewedQuote() (pricing.Breakdown, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen == nil {
		return pricing.Breakdown{}, false
	}
	return *m.frozen, true
}

func (m *Machine) liveQuote(state cart.State) pricing.Breakdown {
	return pricing.Quote(state.Total, m.form.ShippingMethod)
}

// editable guards form edits; callers hold mu. The form is read-only from
// review on: changes go through Back or Edit so they are validated again.
func (m *Machine) editable() error {
	if m.processing {
		return ErrOrderInFlight
	}
	switch m.step {
	case StepReview:
		return errors.Wrap(ErrInvalidTransition, "form is read-only at review")
	case StepConfirmation:
		return errors.Wrap(ErrInvalidTransition, "checkout is complete")
	}
	return nil
}

// SetShippingField updates one shipping address field by form name. While
// the billing address is the same as shipping, the edit is mirrored.
func (m *Machine) SetShippingField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}

	field, err := addressField(&m.form.Shipping, name)
	if err != nil {
		return err
	}
	*field = value

	if m.form.SameBillingAddress {
		mirror, _ := addressField(&m.form.Billing, name)
		*mirror = value
	}
	return nil
}

func (m *Machine) SetBillingField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}

	field, err := addressField(&m.form.Billing, name)
	if err != nil {
		return err
	}
	*field = value
	return nil
}

// SetSameBillingAddress toggles mirroring. Turning it on copies the current
// shipping address; turning it off keeps billing as it is.
func (m *Machine) SetSameBillingAddress(same bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}

	m.form.SameBillingAddress = same
	if same {
		m.form.Billing = m.form.Shipping
	}
	return nil
}

func (m *Machine) SetShippingMethod(name string) error {
	method, err := pricing.ParseShippingMethod(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}
	m.form.ShippingMethod = method
	return nil
}

func (m *Machine) SetPaymentMethod(name string) error {
	switch name {
	case models.PaymentCreditCard, models.PaymentPayPal:
	default:
		return fmt.Errorf("unknown payment method %q", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}
	m.form.PaymentMethod = name
	return nil
}

func (m *Machine) SetCardDetails(card models.CardDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}
	m.form.Card = card
	return nil
}

func addressField(addr *models.Address, name string) (*string, error) {
	switch name {
	case "firstName":
		return &addr.FirstName, nil
	case "lastName":
		return &addr.LastName, nil
	case "address":
		return &addr.Address, nil
	case "city":
		return &addr.City, nil
	case "state":
		return &addr.State, nil
	case "postalCode":
		return &addr.PostalCode, nil
	case "country":
		return &addr.Country, nil
	case "phone":
		return &addr.Phone, nil
	default:
		return nil, fmt.Errorf("unknown address field %q", name)
	}
}

// ContinueToPayment moves shipping → payment once the shipping address is complete
func (m *Machine) ContinueToPayment() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transitionFrom(StepShipping, StepPayment); err != nil {
		return err
	}

	if ve := validateAddress(m.form.Shipping, sectionShipping); ve != nil {
		return ve
	}

	m.step = StepPayment
	m.logger.Debug("checkout step", zap.String("step", string(m.step)))
	return nil
}

// ContinueToReview moves payment → review. Card fields are checked only for
// credit card payments; the billing address only when it differs from
// shipping. The quote shown at review is frozen here.
func (m *Machine) ContinueToReview() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transitionFrom(StepPayment, StepReview); err != nil {
		return err
	}

	if ve := m.validatePayment(); ve != nil {
		return ve
	}

	quote := m.liveQuote(m.cart.State())
	m.frozen = &quote
	m.step = StepReview
	m.logger.Debug("checkout step", zap.String("step", string(m.step)), zap.String("total", quote.Total.StringFixed(2)))
	return nil
}

// validatePayment checks the card for credit card payments and the billing
// address when it differs from shipping; callers hold mu
func (m *Machine) validatePayment() *ValidationError {
	if m.form.PaymentMethod == models.PaymentCreditCard {
		if ve := validateCard(m.form.Card); ve != nil {
			return ve
		}
	}
	if !m.form.SameBillingAddress {
		if ve := validateAddress(m.form.Billing, sectionBilling); ve != nil {
			return ve
		}
	}
	return nil
}

func (m *Machine) transitionFrom(from, to Step) error {
	if m.processing {
		return ErrOrderInFlight
	}
	if m.step != from {
		return errors.Wrapf(ErrInvalidTransition, "cannot move to %s from %s", to, m.step)
	}
	return nil
}

// Back returns to the immediately preceding step, keeping all form data
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.step {
	case StepPayment:
		return m.moveBack(StepShipping)
	case StepReview:
		return m.moveBack(StepPayment)
	default:
		return errors.Wrapf(ErrInvalidTransition, "no step before %s", m.step)
	}
}

// Edit jumps from payment or review back to an earlier step
func (m *Machine) Edit(step Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == StepConfirmation || stepIndex(step) < 0 || stepIndex(step) >= stepIndex(m.step) {
		return errors.Wrapf(ErrInvalidTransition, "cannot edit %s from %s", step, m.step)
	}
	return m.moveBack(step)
}

func (m *Machine) moveBack(to Step) error {
	if m.processing {
		return ErrOrderInFlight
	}
	m.step = to
	m.frozen = nil
	return nil
}

func stepIndex(s Step) int {
	switch s {
	case StepShipping:
		return 0
	case StepPayment:
		return 1
	case StepReview:
		return 2
	case StepConfirmation:
		return 3
	default:
		return -1
	}
}

// PlaceOrder submits the order from review. The live quote must match the
// one frozen at review entry; otherwise the new quote is frozen and
// ErrQuoteChanged is returned so the shopper can confirm again. On success the
// machine enters confirmation and the cart is cleared. Cancellation or a
// submitter failure leaves the machine in review with the cart untouched.
func (m *Machine) PlaceOrder(ctx context.Context) (models.Order, error) {
	m.mu.Lock()
	if m.processing {
		m.mu.Unlock()
		return models.Order{}, ErrOrderInFlight
	}
	if m.step != StepReview {
		step := m.step
		m.mu.Unlock()
		return models.Order{}, errors.Wrapf(ErrInvalidTransition, "cannot place order from %s", step)
	}

	// the order carries the form as validated on the way to review
	ve := validateAddress(m.form.Shipping, sectionShipping)
	if ve == nil {
		ve = m.validatePayment()
	}
	if ve != nil {
		m.mu.Unlock()
		return models.Order{}, ve
	}

	state := m.cart.State()
	if state.IsEmpty() {
		m.mu.Unlock()
		return models.Order{}, ErrEmptyCart
	}

	live := m.liveQuote(state)
	if m.frozen == nil || !live.Equal(*m.frozen) {
		m.frozen = &live
		m.mu.Unlock()
		m.logger.Info("order total changed since review", zap.String("total", live.Total.StringFixed(2)))
		return models.Order{}, ErrQuoteChanged
	}

	order := m.buildOrder(state, live)
	m.processing = true
	m.mu.Unlock()

	m.logger.Info("submitting order",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Totals.Total.StringFixed(2)))

	ref, err := m.submitter.Submit(ctx, order)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = false

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		m.logger.Warn("order submission failed", zap.String("order_id", order.ID), zap.Error(err))
		return models.Order{}, fmt.Errorf("failed to submit order: %w", err)
	}

	order.Reference = ref
	m.order = &order
	m.step = StepConfirmation

	if err := m.cart.ClearCart(); err != nil {
		// The order is placed; a stale persisted cart is only logged
		m.logger.Error("failed to clear cart after order", zap.String("order_id", order.ID), zap.Error(err))
	}

	m.logger.Info("order placed", zap.String("order_id", order.ID), zap.String("reference", ref))
	return order, nil
}

func (m *Machine) buildOrder(state cart.State, quote pricing.Breakdown) models.Order {
	billing := m.form.Billing
	if m.form.SameBillingAddress {
		billing = m.form.Shipping
	}

	order := models.Order{
		ID:              uuid.NewString(),
		Lines:           state.Clone().Lines,
		ShippingMethod:  string(quote.Method),
		PaymentMethod:   m.form.PaymentMethod,
		ShippingAddress: m.form.Shipping,
		BillingAddress:  billing,
		Email:           m.email,
		Totals:          quote.Totals(),
		PlacedAt:        time.Now(),
	}
	if m.form.PaymentMethod == models.PaymentCreditCard {
		order.CardLast4 = m.form.Card.Last4()
	}
	return order
}
