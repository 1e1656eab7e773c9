package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/gitparse-go/internal/config"
	"github.com/quantmind-br/gitparse-go/internal/domain"
)

func newTestCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Hour))

	value, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)
}

func TestCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCache_Has(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.False(t, c.Has(ctx, "key1"))
	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))
	assert.True(t, c.Has(ctx, "key1"))
}

func TestCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "key1"))

	_, err := c.Get(ctx, "key1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Clear())

	assert.False(t, c.Has(ctx, "a"))
	assert.False(t, c.Has(ctx, "b"))
}

func TestResultKey_Deterministic(t *testing.T) {
	cfg := config.DefaultExtraction()

	first := ResultKey("/repo", "tree", cfg)
	second := ResultKey("/repo", "tree", cfg)
	assert.Equal(t, first, second)
}

func TestResultKey_VariesWithInputs(t *testing.T) {
	cfg := config.DefaultExtraction()
	base := ResultKey("/repo", "tree", cfg)

	assert.NotEqual(t, base, ResultKey("/other", "tree", cfg))
	assert.NotEqual(t, base, ResultKey("/repo", "deps", cfg))

	changed := cfg
	changed.MaxFileSize = 1024
	assert.NotEqual(t, base, ResultKey("/repo", "tree", changed))

	filtered := cfg
	filtered.ExcludePatterns = []string{"**/*.log"}
	assert.NotEqual(t, base, ResultKey("/repo", "tree", filtered))
}

func TestResultKey_OperationPrefix(t *testing.T) {
	key := ResultKey("/repo", "tree", config.DefaultExtraction())
	assert.Contains(t, key, "tree:")
}
