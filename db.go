package fbpro

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/fbpro/raster"
	"github.com/bodgit/fbpro/scr"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a persistent cache of decoded pixel buffers held in an SQLite
// database. Pixels are stored zstd compressed.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewStore opens or creates the database in file.
func NewStore(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS screen (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, pixels BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, source TEXT NOT NULL, animation TEXT NOT NULL, sprite INTEGER NOT NULL, color_table INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, pixels BLOB NOT NULL, UNIQUE(source, animation, sprite, color_table))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *Store) pack(b *raster.Buffer) []byte {
	return s.enc.EncodeAll(b.Pix, make([]byte, 0, len(b.Pix)>>1))
}

func (s *Store) unpack(width, height int, pixels []byte) (*raster.Buffer, error) {
	pix, err := s.dec.DecodeAll(pixels, make([]byte, 0, width*height))
	if err != nil {
		return nil, err
	}

	b := &raster.Buffer{
		Width:  width,
		Height: height,
		Pix:    pix,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// Screen returns the decoded screen b, decoding and storing it first if it
// has not been seen before.
func (s *Store) Screen(b []byte) (*raster.Buffer, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var width, height int
	var pixels []byte
	switch err := s.db.QueryRow("SELECT width, height, pixels FROM screen WHERE sha1 = ?", sha).Scan(&width, &height, &pixels); err {
	case sql.ErrNoRows:
		m, err := scr.DecodeBuffer(b)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.Exec("INSERT OR IGNORE INTO screen (sha1, width, height, pixels) VALUES (?, ?, ?, ?)", sha, m.Width, m.Height, s.pack(m)); err != nil {
			return nil, err
		}
		return m, nil
	case nil:
		return s.unpack(width, height, pixels)
	default:
		return nil, err
	}
}

// Sprite returns sprite id of animation name from the archive with
// checksum source, calling decode and storing the result if it has not been
// seen before.
func (s *Store) Sprite(source, name string, id, table int, decode func() (*raster.Buffer, error)) (*raster.Buffer, error) {
	var width, height int
	var pixels []byte
	switch err := s.db.QueryRow("SELECT width, height, pixels FROM sprite WHERE source = ? AND animation = ? AND sprite = ? AND color_table = ?", source, name, id, table).Scan(&width, &height, &pixels); err {
	case sql.ErrNoRows:
		m, err := decode()
		if err != nil {
			return nil, err
		}
		if _, err := s.db.Exec("INSERT OR IGNORE INTO sprite (source, animation, sprite, color_table, width, height, pixels) VALUES (?, ?, ?, ?, ?, ?, ?)", source, name, id, table, m.Width, m.Height, s.pack(m)); err != nil {
			return nil, err
		}
		return m, nil
	case nil:
		return s.unpack(width, height, pixels)
	default:
		return nil, err
	}
}

// Counts returns the number of stored screens and sprites.
func (s *Store) Counts() (screens, sprites int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM screen").Scan(&screens); err != nil {
		return
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM sprite").Scan(&sprites)
	return
}
