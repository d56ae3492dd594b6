package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptodash/internal/ports"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	key := ports.NewKey("coins", "1", "10", "usd")

	_, ok := c.Get(ctx, key)
	require.False(t, ok, "empty cache must miss")

	require.NoError(t, c.Set(ctx, key, []byte(`[{"id":"bitcoin"}]`)))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"bitcoin"}]`, string(got))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(50 * time.Millisecond)
	key := ports.NewKey("trending")

	require.NoError(t, c.Set(ctx, key, []byte(`{}`)))

	_, ok := c.Get(ctx, key)
	require.True(t, ok, "fresh entry must hit")

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "stale entry must behave as absent")

	// a new Set supersedes the stale entry
	require.NoError(t, c.Set(ctx, key, []byte(`{"fresh":true}`)))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"fresh":true}`, string(got))
}

func TestMemoryCacheKeysDoNotShare(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	page1 := ports.NewKey("coins", "1", "10", "usd")
	page2 := ports.NewKey("coins", "2", "10", "usd")

	require.NoError(t, c.Set(ctx, page1, []byte(`"page-1"`)))

	_, ok := c.Get(ctx, page2)
	assert.False(t, ok, "a different parameter combination must not share a payload")
}

func TestMemoryCacheCopiesPayload(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	key := ports.NewKey("news")

	payload := []byte(`{"a":1}`)
	require.NoError(t, c.Set(ctx, key, payload))
	payload[0] = 'X'

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))

	got[0] = 'Y'
	again, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(again))
}
