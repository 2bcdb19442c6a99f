package storage

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewFileStore(fs, "/data/storefront")
	require.NoError(t, err)

	_, ok, err := store.Get(KeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "expected missing key")

	require.NoError(t, store.Set(KeyCart, []byte(`[1]`)))
	require.NoError(t, store.Set(KeyCart, []byte(`[2]`)))

	data, ok, err := store.Get(KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(data), "second write should overwrite the first")

	exists, err := afero.Exists(fs, "/data/storefront/cart.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(KeyCart))
	_, ok, err = store.Get(KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Delete(KeyCart), "deleting a missing key is a no-op")
}

func TestFileStore_RejectsUnsafeKeys(t *testing.T) {
	store := NewMemoryStore()

	for _, key := range []string{"", "../etc/passwd", "Cart", "a/b"} {
		assert.Error(t, store.Set(key, []byte("x")), "key %q", key)
		_, _, err := store.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set(KeyCart, []byte("cart")))
	require.NoError(t, store.Set(KeyUser, []byte("user")))
	require.NoError(t, store.Delete(KeyUser))

	data, ok, err := store.Get(KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cart", string(data))
}
