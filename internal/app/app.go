// Package app assembles the storefront services. Each service is constructed
// once here and handed to whatever needs it.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/backend"
	"github.com/matthieukhl/storefront/internal/cart"
	"github.com/matthieukhl/storefront/internal/catalog"
	"github.com/matthieukhl/storefront/internal/checkout"
	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/logging"
	"github.com/matthieukhl/storefront/internal/session"
	"github.com/matthieukhl/storefront/internal/storage"
	"github.com/matthieukhl/storefront/internal/types"
)

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     storage.Store
	Catalog   *catalog.Catalog
	Cart      *cart.Engine
	Session   *session.Manager
	Submitter types.OrderSubmitter
}

// New builds the application on the configured storage directory
func New(cfg *config.Config) (*App, error) {
	logger, err := logging.New(&cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewOSStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return Assemble(cfg, store, logger)
}

// Assemble wires the services over an existing store and logger
func Assemble(cfg *config.Config, store storage.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := backend.NewIdentityProvider(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider: %w", err)
	}

	submitter, err := backend.NewOrderSubmitter(&cfg.Checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to create order submitter: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Catalog:   catalog.Default(),
		Cart:      cart.NewEngine(store, logger.Named("cart")),
		Session:   session.NewManager(store, provider, logger.Named("session")),
		Submitter: submitter,
	}, nil
}

// NewCheckout starts a checkout over the cart, prefilled from the signed-in
// shopper when there is one
func (a *App) NewCheckout() *checkout.Machine {
	m := checkout.New(a.Cart, a.Submitter, a.Logger.Named("checkout"))
	if id, ok := a.Session.Current(); ok {
		m.Prefill(id)
	}
	return m
}

// Close flushes buffered logs
func (a *App) Close() {
	_ = a.Logger.Sync()
}
