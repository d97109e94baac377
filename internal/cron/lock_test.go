package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryLockStore struct {
	values map[string]string
	ttl    time.Duration
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttl = ttl
	return true, nil
}

func (m *memoryLockStore) ReleaseIfOwner(_ context.Context, key, owner string) (bool, error) {
	if m.values[key] != owner {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockSingleHolder(t *testing.T) {
	ctx := context.Background()
	store := &memoryLockStore{values: map[string]string{}}

	first, err := NewRedisLock(store, "vtps:lock:cron-worker:test", 0)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "vtps:lock:cron-worker:test", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, defaultLockTTL, store.ttl)

	ok, err = first.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok, "re-entrant acquire must fail")

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// releasing a lease we never held is a no-op
	require.NoError(t, second.Release(ctx))
	require.Len(t, store.values, 1)

	require.NoError(t, first.Release(ctx))
	require.Empty(t, store.values)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLockLeavesForeignLease(t *testing.T) {
	ctx := context.Background()
	store := &memoryLockStore{values: map[string]string{}}
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// lease expired and another worker took it
	store.values["k"] = "someone-else"
	require.NoError(t, lock.Release(ctx))
	require.Equal(t, "someone-else", store.values["k"])
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", 0)
	require.Error(t, err)
	_, err = NewRedisLock(&memoryLockStore{}, "", 0)
	require.Error(t, err)
}
