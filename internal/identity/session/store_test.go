package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_MarkerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, ok, err := store.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must have no marker")

	require.NoError(t, store.Save(ctx, "ada"))

	user, ok, err := store.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada", user)

	// Logging in again replaces the single marker.
	require.NoError(t, store.Save(ctx, "grace"))
	user, ok, err = store.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "grace", user)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Save(ctx, "ada"))
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an absent marker is a no-op.
	require.NoError(t, store.Clear(ctx))
}
