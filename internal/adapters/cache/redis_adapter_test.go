package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/internal/domain/providers"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &RedisAdapter{client: client}, mr
}

func TestRedisAdapter_SetGet(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "catalogo:dias", []byte(`[{"CD_DIA":1}]`), 60))

	got, err := adapter.Get(ctx, "catalogo:dias")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"CD_DIA":1}]`, string(got))

	mr.FastForward(61 * time.Second)
	_, err = adapter.Get(ctx, "catalogo:dias")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_DeletePattern(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "catalogo:pisos:1", []byte("a"), 60))
	require.NoError(t, adapter.Set(ctx, "catalogo:pisos:2", []byte("b"), 60))
	require.NoError(t, adapter.Set(ctx, "catalogo:dias", []byte("c"), 60))

	require.NoError(t, adapter.DeletePattern(ctx, "catalogo:pisos:*"))

	assert.False(t, mr.Exists("catalogo:pisos:1"))
	assert.False(t, mr.Exists("catalogo:pisos:2"))
	assert.True(t, mr.Exists("catalogo:dias"))
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, adapter.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}
