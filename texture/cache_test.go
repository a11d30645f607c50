package texture_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-sandbox/gpu/gputest"
	"render-sandbox/texture"
)

func TestCacheHit(t *testing.T) {
	ctx := gputest.New()
	cache, err := texture.NewCache(ctx, 4)
	require.NoError(t, err)
	path := writePNG(t, "rgb.png", rgbImage(4, 4))

	a, err := cache.Get(path, texture.DefaultOptions())
	require.NoError(t, err)
	b, err := cache.Get(path, texture.DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, ctx.LiveTextures())

	srgb, err := cache.Get(path, texture.Options{SRGB: true, FlipY: true})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), srgb.ID(), "options are part of the key")
	assert.Equal(t, 2, cache.Len())
}

func TestCacheEvictionReleases(t *testing.T) {
	ctx := gputest.New()
	cache, err := texture.NewCache(ctx, 1)
	require.NoError(t, err)

	first, err := cache.Get(writePNG(t, "a.png", rgbImage(2, 2)), texture.DefaultOptions())
	require.NoError(t, err)
	firstID := first.ID()

	_, err = cache.Get(writePNG(t, "b.png", grayImage(2, 2)), texture.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, ctx.LiveTextures())
	_, live := ctx.Texture(firstID)
	assert.False(t, live)
	assert.False(t, first.Valid())
}

func TestCacheFailuresNotCached(t *testing.T) {
	ctx := gputest.New()
	cache, err := texture.NewCache(ctx, 4)
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "missing.png")
	tex, err := cache.Get(missing, texture.DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, tex)
	assert.Zero(t, cache.Len())

	fb := cache.GetOrDefault(missing, texture.DefaultOptions())
	require.True(t, fb.Valid())
	assert.Equal(t, 64, fb.Width())
	assert.Same(t, fb, cache.GetOrDefault("", texture.DefaultOptions()))
	assert.Zero(t, cache.Len(), "fallback is not a cache entry")
}

func TestCacheRemoveAndPurge(t *testing.T) {
	ctx := gputest.New()
	cache, err := texture.NewCache(ctx, 4)
	require.NoError(t, err)

	a := writePNG(t, "a.png", rgbImage(2, 2))
	b := writePNG(t, "b.png", rgbaImage(2, 2))
	_, err = cache.Get(a, texture.DefaultOptions())
	require.NoError(t, err)
	_, err = cache.Get(b, texture.DefaultOptions())
	require.NoError(t, err)
	cache.Fallback()
	assert.Equal(t, 3, ctx.LiveTextures())

	assert.True(t, cache.Remove(a, texture.DefaultOptions()))
	assert.False(t, cache.Remove(a, texture.DefaultOptions()))
	assert.Equal(t, 2, ctx.LiveTextures())

	cache.Purge()
	assert.Zero(t, cache.Len())
	assert.Zero(t, ctx.LiveTextures())
	assert.Empty(t, ctx.Misuse())
}

func TestNewCacheRejectsBadSize(t *testing.T) {
	_, err := texture.NewCache(gputest.New(), 0)
	assert.Error(t, err)
}
