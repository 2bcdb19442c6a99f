package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/storage"
	"github.com/matthieukhl/storefront/internal/types"
)

// ErrMissingCredentials is returned when a required login or register input is blank
var ErrMissingCredentials = errors.New("missing credentials")

// Manager holds the signed-in identity and mirrors it to storage under the
// "user" key. It is not a security boundary.
type Manager struct {
	mu       sync.Mutex
	current  *models.Identity
	store    storage.Store
	provider types.IdentityProvider
	logger   *zap.Logger
}

// NewManager restores a previously persisted identity. A corrupt record is
// logged and discarded.
func NewManager(store storage.Store, provider types.IdentityProvider, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: store, provider: provider, logger: logger}
	m.restore()
	return m
}

func (m *Manager) restore() {
	data, ok, err := m.store.Get(storage.KeyUser)
	if err != nil {
		m.logger.Warn("failed to read user from storage", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil || id.ID == "" {
		m.logger.Warn("discarding unreadable stored user", zap.Error(err))
		if err := m.store.Delete(storage.KeyUser); err != nil {
			m.logger.Warn("failed to delete stored user", zap.Error(err))
		}
		return
	}
	m.current = &id
}

func (m *Manager) Login(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Identity{}, errors.Wrap(ErrMissingCredentials, "email and password are required")
	}

	m.logger.Info("logging in", zap.String("email", email))
	id, err := m.provider.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to log in: %w", err)
	}
	if err := m.signIn(ctx, id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

func (m *Manager) Register(ctx context.Context, name, email, password string) (models.Identity, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return models.Identity{}, errors.Wrap(ErrMissingCredentials, "name, email and password are required")
	}

	m.logger.Info("registering", zap.String("email", email))
	id, err := m.provider.Register(ctx, name, email, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to register: %w", err)
	}
	if err := m.signIn(ctx, id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

// signIn commits the identity unless the caller gave up while the provider
// was working
func (m *Manager) signIn(ctx context.Context, id models.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(storage.KeyUser, data); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	m.current = &id
	return nil
}

// Logout forgets the identity and removes the stored record
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	if err := m.store.Delete(storage.KeyUser); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	m.logger.Info("logged out")
	return nil
}

// Current returns the signed-in identity, if any
func (m *Manager) Current() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return models.Identity{}, false
	}
	return *m.current, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}
