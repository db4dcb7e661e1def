package cache

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T, size int) *MemoryCache {
	t.Helper()
	c, err := NewMemoryCache(size)
	require.NoError(t, err)
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newMemory(t, 10)

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := newMemory(t, 10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := newMemory(t, 2)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _ = c.Get(ctx, "a")
	_ = c.Set(ctx, "c", []byte("3"), 0)

	_, err := c.Get(ctx, "b")
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	c := newMemory(t, 10)

	_ = c.Set(ctx, "list_product:EK:SW1", []byte("1"), 0)
	_ = c.Set(ctx, "list_product:H:SW1", []byte("2"), 0)
	_ = c.Set(ctx, "context:1", []byte("3"), 0)

	require.NoError(t, c.DeleteByPattern(ctx, "list_product:*"))

	found, err := c.GetMulti(ctx, []string{"list_product:EK:SW1", "list_product:H:SW1", "context:1"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"context:1": []byte("3")}, found)
}

func TestMemoryCache_DeleteByPatternFreeTextNumbers(t *testing.T) {
	ctx := context.Background()
	c := newMemory(t, 10)

	_ = c.Set(ctx, "list_product:1:EUR:EK:SW-100/2", []byte("1"), 0)
	_ = c.Set(ctx, "list_product:1:EUR:EK:SW-100", []byte("2"), 0)
	_ = c.Set(ctx, "list_product:1:EUR:EK:AB[1", []byte("3"), 0)
	_ = c.Set(ctx, "list_product:1:EUR:EK:AB1", []byte("4"), 0)

	require.NoError(t, c.DeleteByPattern(ctx, `list_product:*:AB\[1`))
	_, err := c.Get(ctx, "list_product:1:EUR:EK:AB[1")
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.DeleteByPattern(ctx, "list_product:*"))
	assert.Equal(t, 0, c.Len())
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"list_product:*", "list_product:1:EUR:EK:SW-100/2", true},
		{"list_product:*:SW-1", "list_product:1:EUR:EK:SW-1", true},
		{"list_product:*:SW-1", "list_product:1:EUR:EK:SW-10", false},
		{"list_product:*:SW-1", "context:1:SW-1", false},
		{"a?c", "a/c", true},
		{"a?c", "ac", false},
		{"a[bc]d", "acd", true},
		{"a[^bc]d", "acd", false},
		{"a[0-9]", "a5", true},
		{"a[9-0]", "a5", true},
		{"a[0-9]", "ax", false},
		{`a\*`, "a*", true},
		{`a\*`, "ab", false},
		{`AB\[1`, "AB[1", true},
		{"AB[1", "AB1", true},
		{"AB[1", "AB[1", false},
		{"**", "", true},
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, matchPattern(tt.pattern, tt.key))
		})
	}
}

func TestTieredCache_PopulatesLocalTier(t *testing.T) {
	ctx := context.Background()
	local := newMemory(t, 10)
	shared := newMemory(t, 10)
	tiered := NewTieredCache(local, shared, time.Minute, logger.NewNop())

	require.NoError(t, shared.Set(ctx, "k", []byte("v"), 0))

	v, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	v, err = local.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestTieredCache_GetMultiAndDelete(t *testing.T) {
	ctx := context.Background()
	local := newMemory(t, 10)
	shared := newMemory(t, 10)
	tiered := NewTieredCache(local, shared, time.Minute, logger.NewNop())

	require.NoError(t, tiered.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, shared.Set(ctx, "b", []byte("2"), 0))

	found, err := tiered.GetMulti(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, tiered.DeleteByPattern(ctx, "*"))
	_, err = tiered.Get(ctx, "a")
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
}
