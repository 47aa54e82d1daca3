package resolver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, ttl time.Duration) (*Cache, *time.Time) {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "resolver.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func countingResolver(calls *int) Resolver {
	return Func(func(_ context.Context, uri string) ([]byte, error) {
		*calls++
		return []byte("body of " + uri), nil
	})
}

func TestCacheServesFreshEntries(t *testing.T) {
	c, now := openTestCache(t, time.Hour)
	calls := 0
	r := c.Wrap(countingResolver(&calls))
	ctx := context.Background()

	for range 3 {
		data, err := r.Resolve(ctx, "https://example.com/a.yaml")
		require.NoError(t, err)
		assert.Equal(t, "body of https://example.com/a.yaml", string(data))
	}
	assert.Equal(t, 1, calls)

	*now = now.Add(2 * time.Hour)
	_, err := r.Resolve(ctx, "https://example.com/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c, now := openTestCache(t, 0)
	calls := 0
	r := c.Wrap(countingResolver(&calls))

	_, err := r.Resolve(context.Background(), "a")
	require.NoError(t, err)
	*now = now.Add(24 * 365 * time.Hour)
	_, err = r.Resolve(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	c, _ := openTestCache(t, time.Hour)
	calls := 0
	fail := true
	r := c.Wrap(Func(func(_ context.Context, _ string) ([]byte, error) {
		calls++
		if fail {
			return nil, errors.New("boom")
		}
		return []byte("ok"), nil
	}))

	_, err := r.Resolve(context.Background(), "a")
	require.Error(t, err)

	fail = false
	data, err := r.Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 2, calls)
}

func TestCachePurge(t *testing.T) {
	c, now := openTestCache(t, time.Minute)
	calls := 0
	r := c.Wrap(countingResolver(&calls))
	ctx := context.Background()

	_, err := r.Resolve(ctx, "old")
	require.NoError(t, err)
	*now = now.Add(2 * time.Minute)
	_, err = r.Resolve(ctx, "new")
	require.NoError(t, err)

	removed, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestCacheCloseNil(t *testing.T) {
	var c *Cache
	assert.NoError(t, c.Close())
}
