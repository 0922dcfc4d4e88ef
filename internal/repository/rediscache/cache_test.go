package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/rediscache"
)

func TestCacheRoundTripAndDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := rediscache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	var tours []domain.Tour
	found, err := cache.Get(ctx, "public:tours", &tours)
	require.NoError(t, err)
	assert.False(t, found)

	in := []domain.Tour{{ID: "t1", NameEN: "City Walk", Price: 49.5}}
	require.NoError(t, cache.Set(ctx, "public:tours", in, time.Minute))
	assert.True(t, mr.Exists("hens:public:tours"))

	found, err = cache.Get(ctx, "public:tours", &tours)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, tours)

	require.NoError(t, cache.Del(ctx, "public:tours", "public:site-content"))
	assert.False(t, mr.Exists("hens:public:tours"))
}

func TestCacheEntriesExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := rediscache.New(mr.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "public:site-content", domain.SiteContent{HeroTitleEN: "Paris"}, time.Second))
	mr.FastForward(2 * time.Second)

	var content domain.SiteContent
	found, err := cache.Get(ctx, "public:site-content", &content)
	require.NoError(t, err)
	assert.False(t, found)
}
