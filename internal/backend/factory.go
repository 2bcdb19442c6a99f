package backend

import (
	"fmt"

	"github.com/matthieukhl/storefront/internal/backend/identity"
	"github.com/matthieukhl/storefront/internal/backend/orders"
	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/types"
)

// NewIdentityProvider creates an identity provider based on configuration
func NewIdentityProvider(cfg *config.SessionConfig) (types.IdentityProvider, error) {
	switch cfg.Provider {
	case "mock":
		return identity.NewMockProvider(cfg.Latency, cfg.TokenSecret), nil
	default:
		return nil, fmt.Errorf("unsupported identity provider: %s", cfg.Provider)
	}
}

// NewOrderSubmitter creates an order submitter based on configuration
func NewOrderSubmitter(cfg *config.CheckoutConfig) (types.OrderSubmitter, error) {
	switch cfg.Submitter {
	case "mock":
		return orders.NewMockSubmitter(cfg.SubmitLatency), nil
	default:
		return nil, fmt.Errorf("unsupported order submitter: %s", cfg.Submitter)
	}
}
