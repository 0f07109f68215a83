package suppliers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, 0)
}

func TestCacheFetchListPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	calls := 0
	loader := func(ctx context.Context) ([]Supplier, error) {
		calls++
		return []Supplier{patrickStar(t)}, nil
	}

	first, err := cache.FetchList(context.Background(), loader)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cache.FetchList(context.Background(), loader)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	calls := 0
	loader := func(ctx context.Context) ([]Supplier, error) {
		calls++
		return []Supplier{}, nil
	}

	_, err := cache.FetchList(context.Background(), loader)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(context.Background()))

	_, err = cache.FetchList(context.Background(), loader)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	out, err := cache.FetchList(context.Background(), func(ctx context.Context) ([]Supplier, error) {
		return []Supplier{patrickStar(t)}, nil
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NoError(t, cache.Bump(context.Background()))
}

func TestServiceBumpsCacheOnWrite(t *testing.T) {
	cache := newTestCache(t)
	repo := newMemoryRepo()
	svc := NewService(repo, cache)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, out)

	supplier := patrickStar(t)
	require.NoError(t, svc.Insert(context.Background(), supplier))

	out, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	_, err = svc.Delete(context.Background(), supplier.ID)
	require.NoError(t, err)

	out, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, out)
}
