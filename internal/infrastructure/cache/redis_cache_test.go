package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/pkg/config"
)

type overview struct {
	Total int64 `json:"total"`
}

func TestRedisStockCache_SinClienteEsNoop(t *testing.T) {
	c := NewRedisStockCache(nil, 0)
	ctx := context.Background()

	require.NoError(t, c.SetOverview(ctx, "s1", overview{Total: 3}))
	var got overview
	hit, err := c.GetOverview(ctx, "s1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.Invalidate(ctx, "s1"))
	assert.Equal(t, 30*time.Second, c.ttl)
}

func TestNewClient_SinDireccion(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379
func TestRedisStockCache_Integracion(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skipf("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisStockCache(client, time.Minute)
	store := uuid.NewString()

	require.NoError(t, c.SetOverview(ctx, store, overview{Total: 42}))
	var got overview
	hit, err := c.GetOverview(ctx, store, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(42), got.Total)

	require.NoError(t, c.Invalidate(ctx, store))
	hit, err = c.GetOverview(ctx, store, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
