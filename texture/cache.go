package texture

import (
	"fmt"
	"image/color"

	lru "github.com/hashicorp/golang-lru/v2"

	"render-sandbox/gpu"
	"render-sandbox/internal/logging"
)

// Key identifies a cached texture. The same file loaded with different
// options is a different texture.
type Key struct {
	Path    string
	Options Options
}

// Cache keeps recently used textures resident. Textures returned by a Cache
// are owned by it: callers must not Release them, and a texture becomes
// invalid once evicted.
type Cache struct {
	ctx      gpu.Context
	lru      *lru.Cache[Key, *Texture2D]
	fallback *Texture2D
}

// NewCache returns a cache holding at most size textures.
func NewCache(ctx gpu.Context, size int) (*Cache, error) {
	l, err := lru.NewWithEvict[Key, *Texture2D](size, releaseOnEviction)
	if err != nil {
		return nil, fmt.Errorf("create texture cache: %w", err)
	}
	return &Cache{ctx: ctx, lru: l}, nil
}

func releaseOnEviction(key Key, tex *Texture2D) {
	logging.Logger().Debug("texture evicted", "path", key.Path, "texture", tex.ID())
	tex.Release()
}

// Get returns the cached texture for path and opts, loading it on a miss.
// Failed loads are not cached.
func (c *Cache) Get(path string, opts Options) (*Texture2D, error) {
	key := Key{Path: path, Options: opts}
	if tex, ok := c.lru.Get(key); ok {
		return tex, nil
	}
	tex, err := Load(c.ctx, path, opts)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, tex)
	return tex, nil
}

// GetOrDefault returns the texture at path, or the fallback checkerboard if
// path is empty or cannot be loaded.
func (c *Cache) GetOrDefault(path string, opts Options) *Texture2D {
	if path == "" {
		return c.Fallback()
	}
	tex, err := c.Get(path, opts)
	if err != nil {
		logging.Logger().Warn("using fallback texture", "path", path, "err", err)
		return c.Fallback()
	}
	return tex
}

// Fallback returns a shared 64×64 checkerboard texture.
func (c *Cache) Fallback() *Texture2D {
	if c.fallback != nil && c.fallback.Valid() {
		return c.fallback
	}
	img := Checker(64,
		color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		color.NRGBA{R: 90, G: 90, B: 100, A: 255})
	c.fallback, _ = FromImage(c.ctx, img, Options{SRGB: true})
	return c.fallback
}

// Remove evicts one entry, releasing its texture.
func (c *Cache) Remove(path string, opts Options) bool {
	return c.lru.Remove(Key{Path: path, Options: opts})
}

// Len returns the number of cached textures, not counting the fallback.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge releases every cached texture and the fallback.
func (c *Cache) Purge() {
	c.lru.Purge()
	if c.fallback != nil {
		c.fallback.Release()
		c.fallback = nil
	}
}
