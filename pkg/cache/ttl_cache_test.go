package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*TTLCache[string, int], *time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, int](ttl, time.Hour)
	c.now = func() time.Time { return now }
	t.Cleanup(c.Close)
	return c, &now
}

func TestTTLCache_SetGetExpire(t *testing.T) {
	c, now := newTestCache(t, time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry stays until eviction")

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_GetOrLoad(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err = c.GetOrLoad("missing", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("missing")
	assert.False(t, ok, "errors are not cached")
}

func TestTTLCache_DeleteFuncAndClear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.DeleteFunc(func(_ string, v int) bool { return v%2 == 1 })
	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.True(t, okB)

	c.Delete("b")
	assert.Equal(t, 0, c.Len())

	c.Set("x", 9)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
