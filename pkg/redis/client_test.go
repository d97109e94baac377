package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, "vtps:rl:login", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, count)
	}
	require.Equal(t, time.Minute, mock.ttl["vtps:rl:login"])
	require.Equal(t, 1, mock.expireSet)
}

func TestIncrWithTTLRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.failExpire = true
	client := &Client{store: mock}

	_, err := client.IncrWithTTL(ctx, "k", time.Minute)
	require.Error(t, err)

	mock.failExpire = false
	count, err := client.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Equal(t, time.Minute, mock.ttl["k"])
}

func TestReleaseIfOwner(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.LockKey("cron-worker:dev")
	ok, err := client.SetNX(ctx, key, "owner-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, key, "owner-2", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	released, err := client.ReleaseIfOwner(ctx, key, "owner-2")
	require.NoError(t, err)
	require.False(t, released)

	released, err = client.ReleaseIfOwner(ctx, key, "owner-1")
	require.NoError(t, err)
	require.True(t, released)

	_, err = client.Get(ctx, key)
	require.ErrorIs(t, err, redis.Nil)
}

func TestSetXXOnlyReplacesExistingKey(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.IdempotencyKey("user|POST|/api/people/", "abc")

	ok, err := client.SetXX(ctx, key, "final", time.Hour)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = client.Get(ctx, key)
	require.ErrorIs(t, err, redis.Nil)

	_, err = client.SetNX(ctx, key, "pending", time.Minute)
	require.NoError(t, err)
	ok, err = client.SetXX(ctx, key, "final", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "final", got)
	require.Equal(t, time.Hour, mock.ttl[key])
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	require.Error(t, client.Ping(context.Background()))
	_, err := client.IncrWithTTL(context.Background(), "k", time.Second)
	require.Error(t, err)
	require.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	require.Equal(t, "vtps:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	require.Equal(t, "vtps:lock:retention", client.LockKey("retention"))
	require.Equal(t, "vtps:idempotency:scope", client.IdempotencyKey(" scope ", ""))
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://:pw@cache.internal:6380/2",
		PoolSize:    7,
		DialTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, "cache.internal:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, "pw", opts.Password)
	require.Equal(t, 7, opts.PoolSize)
	require.Equal(t, 3*time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 4})
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)
	require.Equal(t, 4, opts.DB)

	_, err = optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)
}

type mockCmdable struct {
	data       map[string]string
	incr       map[string]int64
	ttl        map[string]time.Duration
	expireSet  int
	failExpire bool
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
		ttl:  make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) SetXX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; !exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.failExpire {
		return redis.NewBoolResult(false, fmt.Errorf("connection reset"))
	}
	if _, ok := m.ttl[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.ttl[key] = expiration
	m.expireSet++
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if script != releaseScript || len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, fmt.Errorf("unexpected script"))
	}
	if m.data[keys[0]] != fmt.Sprint(args[0]) {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(m.data, keys[0])
	return redis.NewCmdResult(int64(1), nil)
}
