package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PolicyStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPolicyStore(client)
}

func TestPolicyStoreDefaults(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestPolicyStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := DefaultPolicy()
	p.TravelBufferMinutes = 45
	p.LateFeeCents = 2500
	require.NoError(t, store.Set(ctx, p))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 45, got.TravelBufferMinutes)
	assert.Equal(t, 2500, got.LateFeeCents)
}

func TestPolicyStoreRejectsBadValues(t *testing.T) {
	store := newTestStore(t)

	p := DefaultPolicy()
	p.SlotStepMinutes = 0
	err := store.Set(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicyStoreNilClient(t *testing.T) {
	store := NewPolicyStore(nil)

	p, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	assert.Error(t, store.Set(context.Background(), DefaultPolicy()))
}
