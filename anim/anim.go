/*
Package anim implements a decoder for the ANIM.DAT sprite animation archive.

The archive starts with a little-endian 16-bit entry count followed by one
14 byte index entry per animation: an 8 byte NUL padded name, a big-endian
16-bit frame count and a little-endian 32-bit offset from the start of the
file.

At each offset is a 4 byte header holding the frame count, the view count
and two reserved bytes, followed by frames*views 4 byte references laid out
frame by frame. Each reference holds a flag byte, a sprite ID and signed x
and y placement offsets. Directly after the references is a table of
little-endian 16-bit sprite offsets, one per sprite ID up to the highest ID
referenced, relative to the start of the table itself.

Each sprite is a 1 byte width and 1 byte height followed by an LZ77 stream
that decodes to the pixels column by column.
*/
package anim

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/bodgit/fbpro/lz77"
	"github.com/bodgit/fbpro/raster"
)

const (
	indexHeaderSize = 2
	indexEntrySize  = 14
	nameSize        = 8
	headerSize      = 4
	refSize         = 4
	offsetSize      = 2
	spriteHeader    = 2
)

var (
	// ErrTruncated is returned when a table extends beyond the end of the
	// archive.
	ErrTruncated = errors.New("anim: truncated archive")
	// ErrOffset is returned when an offset points outside the archive.
	ErrOffset = errors.New("anim: offset outside archive")
	// ErrNoSprite is returned for a sprite ID that is not in the table.
	ErrNoSprite = errors.New("anim: no such sprite")
	// ErrNotFound is returned when looking up an unknown animation.
	ErrNotFound = errors.New("anim: no such animation")
)

// Entry is one animation in the archive index.
type Entry struct {
	Name       string
	FrameCount int
	Offset     uint32
}

// Ref places a sprite for one frame and view.
type Ref struct {
	Flag     byte
	SpriteID byte
	X        int8
	Y        int8
}

// Mirrored reports whether the sprite is drawn flipped horizontally.
func (r Ref) Mirrored() bool {
	return r.Flag != 0
}

// ParseIndex parses the index table at the start of the archive.
func ParseIndex(b []byte) ([]Entry, error) {
	if len(b) < indexHeaderSize {
		return nil, ErrTruncated
	}

	count := int(binary.LittleEndian.Uint16(b))
	if indexHeaderSize+count*indexEntrySize > len(b) {
		return nil, fmt.Errorf("%w: index of %d entries", ErrTruncated, count)
	}

	entries := make([]Entry, count)
	for i := range entries {
		e := b[indexHeaderSize+i*indexEntrySize:]

		name := e[:nameSize]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		}

		entries[i] = Entry{
			Name:       string(name),
			FrameCount: int(binary.BigEndian.Uint16(e[nameSize:])),
			Offset:     binary.LittleEndian.Uint32(e[nameSize+2:]),
		}
	}

	return entries, nil
}

// Layout is the reference grid and sprite offset table of one animation,
// parsed without decoding any sprites.
type Layout struct {
	Name   string
	Frames int
	Views  int
	Refs   []Ref

	// Absolute offsets of each sprite payload, indexed by sprite ID
	offsets []int
}

// ParseLayout parses the header, references and sprite offset table for e.
func ParseLayout(b []byte, e Entry) (*Layout, error) {
	start := int64(e.Offset)
	if start+headerSize > int64(len(b)) {
		return nil, fmt.Errorf("%w: %s header at %#x", ErrOffset, e.Name, e.Offset)
	}
	off := int(start)

	l := &Layout{
		Name:   e.Name,
		Frames: int(b[off]),
		Views:  int(b[off+1]),
	}
	off += headerSize

	n := l.Frames * l.Views
	if off+n*refSize > len(b) {
		return nil, fmt.Errorf("%w: %s references", ErrTruncated, e.Name)
	}

	l.Refs = make([]Ref, n)
	maxID := -1
	for i := range l.Refs {
		r := b[off+i*refSize:]
		l.Refs[i] = Ref{
			Flag:     r[0],
			SpriteID: r[1],
			X:        int8(r[2]),
			Y:        int8(r[3]),
		}
		if int(r[1]) > maxID {
			maxID = int(r[1])
		}
	}
	off += n * refSize

	if off+(maxID+1)*offsetSize > len(b) {
		return nil, fmt.Errorf("%w: %s sprite table", ErrTruncated, e.Name)
	}

	l.offsets = make([]int, maxID+1)
	for i := range l.offsets {
		l.offsets[i] = off + int(binary.LittleEndian.Uint16(b[off+i*offsetSize:]))
	}

	return l, nil
}

// Ref returns the reference for the given frame and view.
func (l *Layout) Ref(frame, view int) (Ref, bool) {
	if frame < 0 || frame >= l.Frames || view < 0 || view >= l.Views {
		return Ref{}, false
	}
	return l.Refs[frame*l.Views+view], true
}

// SpriteIDs returns the distinct sprite IDs referenced, in ascending order.
func (l *Layout) SpriteIDs() []int {
	seen := make(map[int]struct{}, len(l.offsets))
	var ids []int
	for _, r := range l.Refs {
		id := int(r.SpriteID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DecodeSprite decodes sprite id, remapping literals through table. A nil
// table is the same as Identity.
func (l *Layout) DecodeSprite(b []byte, id int, table *ColorTable) (*raster.Buffer, error) {
	if id < 0 || id >= len(l.offsets) {
		return nil, fmt.Errorf("%w: %s sprite %d", ErrNoSprite, l.Name, id)
	}

	off := l.offsets[id]
	if off+spriteHeader > len(b) {
		return nil, fmt.Errorf("%w: %s sprite %d at %#x", ErrOffset, l.Name, id, off)
	}

	w, h := int(b[off]), int(b[off+1])
	col := lz77.Decode(b[off+spriteHeader:], (*[lz77.TableSize]byte)(table))

	return raster.Transpose(col, w, h), nil
}

// Animation is a fully decoded animation with its pool of sprites.
type Animation struct {
	*Layout
	Sprites map[int]*raster.Buffer
}

// Sprite returns the decoded sprite for id.
func (a *Animation) Sprite(id int) (*raster.Buffer, bool) {
	s, ok := a.Sprites[id]
	return s, ok
}

// Decode decodes the animation described by e. Each sprite referenced is
// decoded exactly once however many references share it. Any failure
// discards the whole animation.
func Decode(b []byte, e Entry, table *ColorTable) (*Animation, error) {
	l, err := ParseLayout(b, e)
	if err != nil {
		return nil, err
	}

	a := &Animation{
		Layout:  l,
		Sprites: make(map[int]*raster.Buffer),
	}

	for _, id := range l.SpriteIDs() {
		s, err := l.DecodeSprite(b, id, table)
		if err != nil {
			return nil, err
		}
		a.Sprites[id] = s
	}

	return a, nil
}
