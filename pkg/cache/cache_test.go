package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sellerhub/config"
)

type product struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got product
	assert.False(t, m.Get(ctx, "product:1", &got))

	require.NoError(t, m.Set(ctx, "product:1", product{ID: 1, Name: "Mug"}, time.Minute))
	require.True(t, m.Get(ctx, "product:1", &got))
	assert.Equal(t, "Mug", got.Name)

	require.NoError(t, m.Del(ctx, "product:1"))
	assert.False(t, m.Get(ctx, "product:1", &got))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	clock := time.Now()
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Set(ctx, "k", 1, time.Second))
	clock = clock.Add(2 * time.Second)

	var n int
	assert.False(t, m.Get(ctx, "k", &n))
	assert.Equal(t, 0, m.Len())
}

func TestNullStore(t *testing.T) {
	var s Store = Null{}
	require.NoError(t, s.Set(context.Background(), "k", 1, 0))
	var n int
	assert.False(t, s.Get(context.Background(), "k", &n))
}

func TestConnectFallsBackToNull(t *testing.T) {
	prev := config.RedisAddr()
	config.Set("REDIS_ADDR", "127.0.0.1:1")
	t.Cleanup(func() { config.Set("REDIS_ADDR", prev) })

	s, err := Connect(context.Background())
	assert.Error(t, err)
	assert.IsType(t, Null{}, s)
}
