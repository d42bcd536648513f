package fbpro

import (
	"crypto/sha1"
	"fmt"
	"sync"

	"github.com/bodgit/fbpro/anim"
	"github.com/bodgit/fbpro/raster"
)

type spriteKey struct {
	name   string
	id     int
	mirror bool
	table  int
}

type cacheEntry struct {
	once sync.Once
	buf  *raster.Buffer
	err  error
}

type layoutEntry struct {
	once   sync.Once
	layout *anim.Layout
	err    error
}

// SpriteCache decodes sprites from an archive on first use and keeps them.
// Concurrent requests for the same sprite decode it once, and mirrored
// copies are derived from the cached unmirrored sprite.
type SpriteCache struct {
	archive *anim.Archive
	store   *Store
	source  string

	mu      sync.Mutex
	sprites map[spriteKey]*cacheEntry
	layouts map[string]*layoutEntry
}

// NewSpriteCache returns a cache for sprites in a. If s is not nil decoded
// sprites are also persisted there, keyed by the checksum of the archive.
func NewSpriteCache(a *anim.Archive, s *Store) *SpriteCache {
	return &SpriteCache{
		archive: a,
		store:   s,
		source:  fmt.Sprintf("%X", sha1.Sum(a.Bytes())),
		sprites: make(map[spriteKey]*cacheEntry),
		layouts: make(map[string]*layoutEntry),
	}
}

func (c *SpriteCache) layout(name string) (*anim.Layout, error) {
	c.mu.Lock()
	e, ok := c.layouts[name]
	if !ok {
		e = new(layoutEntry)
		c.layouts[name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.layout, e.err = c.archive.Layout(name)
	})

	return e.layout, e.err
}

func (c *SpriteCache) decode(k spriteKey) (*raster.Buffer, error) {
	if k.mirror {
		s, err := c.Sprite(k.name, k.id, false, k.table)
		if err != nil {
			return nil, err
		}
		return s.Mirror(), nil
	}

	l, err := c.layout(k.name)
	if err != nil {
		return nil, err
	}

	decode := func() (*raster.Buffer, error) {
		return l.DecodeSprite(c.archive.Bytes(), k.id, anim.Table(k.table))
	}
	if c.store == nil {
		return decode()
	}

	return c.store.Sprite(c.source, k.name, k.id, k.table, decode)
}

// Sprite returns sprite id of the named animation decoded with color
// table table.
func (c *SpriteCache) Sprite(name string, id int, mirror bool, table int) (*raster.Buffer, error) {
	k := spriteKey{name: name, id: id, mirror: mirror, table: table}

	c.mu.Lock()
	e, ok := c.sprites[k]
	if !ok {
		e = new(cacheEntry)
		c.sprites[k] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.buf, e.err = c.decode(k)
	})

	return e.buf, e.err
}

// Animation assembles the named animation from cached sprites.
func (c *SpriteCache) Animation(name string, table int) (*anim.Animation, error) {
	l, err := c.layout(name)
	if err != nil {
		return nil, err
	}

	a := &anim.Animation{
		Layout:  l,
		Sprites: make(map[int]*raster.Buffer),
	}
	for _, id := range l.SpriteIDs() {
		s, err := c.Sprite(name, id, false, table)
		if err != nil {
			return nil, err
		}
		a.Sprites[id] = s
	}

	return a, nil
}
