package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/storage"
)

// Engine owns the cart state and its durable-storage mirror. Every mutation
// runs the reducer, commits the new state, then persists the line list.
type Engine struct {
	mu     sync.Mutex
	state  State
	store  storage.Store
	logger *zap.Logger
}

// NewEngine creates a cart engine and restores any previously persisted cart.
// A missing or unreadable cart is logged and the engine starts empty.
func NewEngine(store storage.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		state:  EmptyState(),
		store:  store,
		logger: logger,
	}
	e.restore()
	return e
}

func (e *Engine) restore() {
	data, ok, err := e.store.Get(storage.KeyCart)
	if err != nil {
		e.logger.Warn("failed to read cart from storage", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		e.logger.Warn("failed to parse cart from storage", zap.Error(err))
		return
	}

	valid := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Product.ID == "" || l.Quantity < 1 {
			e.logger.Warn("dropping invalid stored cart line",
				zap.String("product_id", l.Product.ID),
				zap.Int("quantity", l.Quantity))
			continue
		}
		valid = append(valid, l)
	}

	state, err := Reduce(e.state, Load{Lines: valid})
	if err != nil {
		e.logger.Warn("failed to load stored cart", zap.Error(err))
		return
	}
	e.state = state
	e.logger.Debug("restored cart", zap.Int("lines", len(state.Lines)), zap.Int("item_count", state.ItemCount))
}

// Dispatch applies a command. Reducer errors leave the cart untouched; a
// storage error is returned after the new state has been committed in memory.
func (e *Engine) Dispatch(cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := Reduce(e.state, cmd)
	if err != nil {
		return err
	}
	e.state = next

	if err := e.persist(); err != nil {
		e.logger.Error("failed to persist cart", zap.Error(err))
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (e *Engine) persist() error {
	data, err := json.Marshal(e.state.Lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	return e.store.Set(storage.KeyCart, data)
}

// AddToCart adds quantity of product, merging into an existing line
func (e *Engine) AddToCart(product models.Product, quantity int) error {
	e.logger.Info("adding item", zap.String("product_id", product.ID), zap.Int("quantity", quantity))
	return e.Dispatch(AddItem{Product: product, Quantity: quantity})
}

// RemoveFromCart drops the line for productID; absent ids are a no-op
func (e *Engine) RemoveFromCart(productID string) error {
	e.logger.Info("removing item", zap.String("product_id", productID))
	return e.Dispatch(RemoveItem{ProductID: productID})
}

// UpdateQuantity sets the quantity for productID. Zero removes the line and
// negative quantities are rejected.
func (e *Engine) UpdateQuantity(productID string, quantity int) error {
	e.logger.Info("updating quantity", zap.String("product_id", productID), zap.Int("new_quantity", quantity))
	return e.Dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (e *Engine) ClearCart() error {
	e.logger.Info("clearing cart")
	return e.Dispatch(Clear{})
}

// State returns a copy of the current cart
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Lines() []models.CartLine {
	return e.State().Lines
}

func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.ItemCount
}

func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Total
}
