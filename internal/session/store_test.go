package session_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crypted-pay/crypted-pay/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return session.NewFromClient(client)
}

func TestStoreFreshSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chain, err := store.Chain(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, chain)

	last, err := store.LastMessageID(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, last)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetChain(ctx, 42, []string{"/start", "wallet"}))
	require.NoError(t, store.SetLastMessageID(ctx, 42, 100))
	require.NoError(t, store.SetLastTrigger(ctx, 42, "wallet"))

	chain, err := store.Chain(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"/start", "wallet"}, chain)

	// Fields are independent: updating one must not clobber the others.
	require.NoError(t, store.SetChain(ctx, 42, []string{"/start"}))
	last, err := store.LastMessageID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 100, last)
}

func TestStoreIsolatesUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetChain(ctx, 1, []string{"/start", "wallet"}))
	require.NoError(t, store.SetChain(ctx, 2, []string{"/start", "settings"}))

	chain, err := store.Chain(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/start", "wallet"}, chain)
}
