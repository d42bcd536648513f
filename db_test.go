package fbpro

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/fbpro/raster"
	"github.com/bodgit/fbpro/scr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreScreen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fbpro.db")

	s, err := NewStore(file)
	require.NoError(t, err)

	b := testScreen(1, 2, 3, 4)

	m, err := s.Screen(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Pix)

	m, err = s.Screen(b)
	require.NoError(t, err)
	assert.Equal(t, &raster.Buffer{Width: 2, Height: 2, Pix: []byte{1, 2, 3, 4}}, m)

	_, err = s.Screen([]byte("JUNK"))
	assert.ErrorIs(t, err, scr.ErrFormat)

	screens, sprites, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, screens)
	assert.Equal(t, 0, sprites)

	require.NoError(t, s.Close())

	// Reopening finds the stored screen
	s, err = NewStore(file)
	require.NoError(t, err)
	defer s.Close()

	screens, _, err = s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, screens)

	m, err = s.Screen(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Pix)
}

func TestStoreSprite(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "fbpro.db"))
	require.NoError(t, err)
	defer s.Close()

	calls := 0
	decode := func() (*raster.Buffer, error) {
		calls++
		return &raster.Buffer{Width: 3, Height: 1, Pix: []byte{7, 8, 9}}, nil
	}

	for i := 0; i < 3; i++ {
		m, err := s.Sprite("ABCD", "RUN", 0, -1, decode)
		require.NoError(t, err)
		assert.Equal(t, []byte{7, 8, 9}, m.Pix)
	}
	assert.Equal(t, 1, calls)

	// A different color table is a different sprite
	_, err = s.Sprite("ABCD", "RUN", 0, 1, decode)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, sprites, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, sprites)
}

func TestDatabaseWithStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "fbpro.db"))
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 2; i++ {
		db, err := LoadDatabase(testArchive(), nil, WithStore(s))
		require.NoError(t, err)

		m, err := db.Sprite("RUN", 0, false)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x20, 0x22, 0x21, 0x23}, m.Pix)
	}

	_, sprites, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, sprites)
}
