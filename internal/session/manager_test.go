package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/backend/identity"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/storage"
)

func newManager(t *testing.T, store storage.Store, latency time.Duration) *Manager {
	t.Helper()
	return NewManager(store, identity.NewMockProvider(latency, "secret"), nil)
}

func TestManager_LoginPersistsIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	m := newManager(t, store, time.Millisecond)
	assert.False(t, m.IsAuthenticated())

	id, err := m.Login(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, identity.DemoUserName, id.Name)
	assert.NotEmpty(t, id.Token)

	data, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored models.Identity
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, id, stored)

	restored := newManager(t, store, 0)
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestManager_RegisterUsesName(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore(), 0)

	id, err := m.Register(context.Background(), "Jane Doe", "jane@example.com", "pw")
	require.NoError(t, err)

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", current.Name)
	assert.Equal(t, id.ID, current.ID)
}

func TestManager_LogoutRemovesIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	m := newManager(t, store, 0)
	_, err := m.Login(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout())

	assert.False(t, m.IsAuthenticated())
	_, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, newManager(t, store, 0).IsAuthenticated())

	require.NoError(t, m.Logout(), "logging out twice is harmless")
}

func TestManager_MissingCredentials(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore(), 0)

	_, err := m.Login(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = m.Register(context.Background(), "", "jane@example.com", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.False(t, m.IsAuthenticated())
}

func TestManager_CancelledLoginChangesNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	m := newManager(t, store, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Login(ctx, "jane@example.com", "pw")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.IsAuthenticated())
	_, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_CorruptRecordDiscarded(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyUser, []byte(`{"id":`)))

	m := newManager(t, store, 0)

	assert.False(t, m.IsAuthenticated())
	_, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt record is removed")
}
