package types

import (
	"context"

	"github.com/matthieukhl/storefront/internal/models"
)

// IdentityProvider authenticates shoppers and issues identities
type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Register(ctx context.Context, name, email, password string) (models.Identity, error)
	Name() string
}

// OrderSubmitter accepts a fully priced order and returns its confirmation
// reference
type OrderSubmitter interface {
	Submit(ctx context.Context, order models.Order) (string, error)
	Name() string
}
