/*
Package fbpro is a library for extracting the screens and sprite animations
from Front Page Sports Football Pro '93.
*/
package fbpro

import (
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/fbpro/anim"
	"github.com/bodgit/fbpro/palette"
	"github.com/bodgit/fbpro/raster"
	"github.com/bodgit/fbpro/render"
	"github.com/bodgit/fbpro/scr"
)

// AnimFilename is the name of the sprite animation archive.
const AnimFilename = "ANIM.DAT"

type config struct {
	logger  *log.Logger
	store   *Store
	table   int
	format  render.Format
	scale   int
	workers int
	view    int
}

// Option configures a Database or an export.
type Option func(*config)

// WithLogger sets the logger used to report skipped assets.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStore caches decoded pixels in s.
func WithStore(s *Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithColorTable selects the sprite color table, -1 being the identity
// table.
func WithColorTable(i int) Option {
	return func(c *config) {
		c.table = i
	}
}

// WithFormat sets the exported image format.
func WithFormat(f render.Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithScale enlarges exported images by an integer factor.
func WithScale(n int) Option {
	return func(c *config) {
		c.scale = n
	}
}

// WithWorkers sets the number of concurrent export workers.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithView sets the view used for each animation in a catalog.
func WithView(v int) Option {
	return func(c *config) {
		c.view = v
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:  log.New(io.Discard, "", 0),
		table:   -1,
		format:  render.PNG,
		scale:   1,
		workers: 10,
		view:    4,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Database holds every animation that could be decoded from an archive
// along with the palette to display them with.
type Database struct {
	archive    *anim.Archive
	cache      *SpriteCache
	palette    color.Palette
	animations map[string]*anim.Animation
	config     *config
}

// LoadDatabase decodes every animation in animData. A nil palette is
// replaced with a grayscale one. Animations that fail to decode are logged
// and left out, only a broken index is an error.
func LoadDatabase(animData []byte, p color.Palette, opts ...Option) (*Database, error) {
	archive, err := anim.Open(animData)
	if err != nil {
		return nil, err
	}

	if p == nil {
		p = palette.Grayscale()
	}

	c := newConfig(opts)
	d := &Database{
		archive:    archive,
		cache:      NewSpriteCache(archive, c.store),
		palette:    p,
		animations: make(map[string]*anim.Animation),
		config:     c,
	}

	for _, e := range archive.Entries() {
		if _, ok := d.animations[e.Name]; ok {
			continue
		}
		a, err := d.cache.Animation(e.Name, d.config.table)
		if err != nil {
			d.config.logger.Printf("Skipping animation \"%s\": %v\n", e.Name, err)
			continue
		}
		d.animations[e.Name] = a
	}

	return d, nil
}

// Open loads the animation archive and gameplay palette found in the game
// directory dir.
func Open(dir string, opts ...Option) (*Database, error) {
	file, err := lookupFile(dir, AnimFilename)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	p, err := GameplayPalette(dir)
	if err != nil {
		return nil, err
	}

	return LoadDatabase(b, p, opts...)
}

// Palette returns the display palette.
func (d *Database) Palette() color.Palette {
	return d.palette
}

// Entries returns the archive index, including animations that failed to
// decode.
func (d *Database) Entries() []anim.Entry {
	return d.archive.Entries()
}

// resolve returns the archive name for name, falling back to upper case as
// the index uses DOS names.
func (d *Database) resolve(name string) string {
	if _, err := d.archive.Lookup(name); err != nil {
		if upper := strings.ToUpper(name); upper != name {
			if _, err := d.archive.Lookup(upper); err == nil {
				return upper
			}
		}
	}
	return name
}

// Animation returns the named animation.
func (d *Database) Animation(name string) (*anim.Animation, bool) {
	a, ok := d.animations[d.resolve(name)]
	return a, ok
}

// Animations returns the decoded animations in index order.
func (d *Database) Animations() []*anim.Animation {
	anims := make([]*anim.Animation, 0, len(d.animations))
	seen := make(map[string]struct{}, len(d.animations))
	for _, e := range d.archive.Entries() {
		a, ok := d.animations[e.Name]
		if !ok {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		anims = append(anims, a)
	}
	return anims
}

// Sprite returns a sprite of the named animation, decoded with the
// configured color table and optionally mirrored.
func (d *Database) Sprite(name string, id int, mirror bool) (*raster.Buffer, error) {
	return d.cache.Sprite(d.resolve(name), id, mirror, d.config.table)
}

// DecodeScreen decodes the screen held in b, going through the store given
// with WithStore if there is one.
func DecodeScreen(b []byte, opts ...Option) (*raster.Buffer, error) {
	return newConfig(opts).decodeScreen(b)
}

func (c *config) decodeScreen(b []byte) (*raster.Buffer, error) {
	if c.store != nil {
		return c.store.Screen(b)
	}
	return scr.DecodeBuffer(b)
}

// SafeName reports whether an animation name can be used as a file name
// without escaping the directory it is written to.
func SafeName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\:`) && filepath.Base(name) == name
}

// lookupFile finds the path elem below dir ignoring case, as the game
// files use upper case DOS names.
func lookupFile(dir string, elem ...string) (string, error) {
	p := dir
	for _, e := range elem {
		entries, err := os.ReadDir(p)
		if err != nil {
			return "", err
		}
		found := false
		for _, entry := range entries {
			if strings.EqualFold(entry.Name(), e) {
				p = filepath.Join(p, entry.Name())
				found = true
				break
			}
		}
		if !found {
			return "", &os.PathError{Op: "open", Path: filepath.Join(p, e), Err: os.ErrNotExist}
		}
	}
	return p, nil
}
