package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl), mr
}

func exercise(t *testing.T, c Cache) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "rooms")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "rooms", []byte(`[{"id":1}]`)))
	got, ok, err := c.Get(ctx, "rooms")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, c.Invalidate(ctx, "rooms", "never-set"))
	_, ok, err = c.Get(ctx, "rooms")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	exercise(t, NewMemory(8, time.Minute))
}

func TestMemoryCacheEvictsBeyondSize(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1, time.Minute)
	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", []byte("2")))

	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "b")
	assert.True(t, ok)
}

func TestRedisCache(t *testing.T) {
	c, _ := newRedis(t, time.Minute)
	exercise(t, c)
}

func TestRedisCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t, time.Minute)
	require.NoError(t, c.Set(ctx, "payments", []byte("[]")))
	assert.True(t, mr.Exists(redisKeyPrefix+"payments"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "payments")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheReportsConnectionErrors(t *testing.T) {
	c, mr := newRedis(t, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "tenants")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		want    any
		wantErr bool
	}{
		{DriverMemory, &Memory{}, false},
		{"", &Memory{}, false},
		{DriverRedis, &Redis{}, false},
		{DriverNone, Nop{}, false},
		{"memcached", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			c, err := New(Options{Driver: tt.driver, Size: 4, TTL: time.Second, RedisAddr: "127.0.0.1:0"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
		})
	}
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
