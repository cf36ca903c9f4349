package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	pos := Position{Lat: -6.25, Lng: 106.79, Name: "Driver BookPort", Timestamp: time.Now()}
	require.NoError(t, s.Set(ctx, 1, pos))

	got, found, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, pos, got)

	require.NoError(t, s.Delete(ctx, 1))
	_, found, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreIsolatesOrders(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, 1, Position{Lat: 1}))
	require.NoError(t, s.Set(ctx, 2, Position{Lat: 2}))
	require.NoError(t, s.Delete(ctx, 1))

	_, found, _ := s.Get(ctx, 1)
	assert.False(t, found)
	got, found, _ := s.Get(ctx, 2)
	require.True(t, found)
	assert.Equal(t, float64(2), got.Lat)
}
