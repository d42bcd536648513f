package anim

import "fmt"

// Archive is a parsed animation archive. The index is parsed once and
// animations are decoded on demand.
type Archive struct {
	b       []byte
	entries []Entry
	byName  map[string]int
}

// Open parses the index of the archive held in b. The archive keeps a
// reference to b which must not be modified afterwards.
func Open(b []byte) (*Archive, error) {
	entries, err := ParseIndex(b)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		b:       b,
		entries: entries,
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if _, ok := a.byName[e.Name]; !ok {
			a.byName[e.Name] = i
		}
	}

	return a, nil
}

// Bytes returns the raw archive.
func (a *Archive) Bytes() []byte {
	return a.b
}

// Entries returns the index entries in archive order.
func (a *Archive) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

// Lookup returns the index entry for the named animation.
func (a *Archive) Lookup(name string) (Entry, error) {
	i, ok := a.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a.entries[i], nil
}

// Layout parses the reference grid of the named animation.
func (a *Archive) Layout(name string) (*Layout, error) {
	e, err := a.Lookup(name)
	if err != nil {
		return nil, err
	}
	return ParseLayout(a.b, e)
}

// Decode decodes the named animation using table.
func (a *Archive) Decode(name string, table *ColorTable) (*Animation, error) {
	e, err := a.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Decode(a.b, e, table)
}
