package backing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TruncateZeroesRegrowth(t *testing.T) {
	m := NewMemory(8)
	copy(m.Bytes(), []byte{1, 2, 3, 4, 5, 6, 7, 8})

	require.NoError(t, m.Truncate(4))
	require.Equal(t, int64(4), m.Size())

	// regrowth within capacity must not resurrect old bytes
	require.NoError(t, m.Truncate(8))
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, m.Bytes())

	require.NoError(t, m.Truncate(1024))
	assert.Equal(t, int64(1024), m.Size())
	assert.Equal(t, byte(4), m.Bytes()[3])
	assert.Equal(t, byte(0), m.Bytes()[1023])

	require.ErrorIs(t, m.Truncate(-1), ErrNegativeSize)
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory(4)
	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Truncate(8), ErrClosed)
	require.ErrorIs(t, m.FlushRange(0, 4), ErrClosed)
	require.ErrorIs(t, m.Sync(false), ErrClosed)
}

func TestFile_GrowPersistReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.cfs")

	f, err := CreateFile(path)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.Size())
	require.Empty(t, f.Bytes())

	require.NoError(t, f.Truncate(100))
	require.Len(t, f.Bytes(), 100)
	copy(f.Bytes()[90:], "persisted")

	require.NoError(t, f.FlushRange(90, 9))
	require.NoError(t, f.Sync(false))

	// grow again; earlier content survives the remap
	require.NoError(t, f.Truncate(9000))
	assert.Equal(t, "persisted", string(f.Bytes()[90:99]))
	assert.Equal(t, byte(0), f.Bytes()[8999])
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "double close is a no-op")

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(9000), st.Size())

	g, err := OpenFile(path)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, "persisted", string(g.Bytes()[90:99]))

	require.NoError(t, g.Truncate(50))
	assert.Equal(t, int64(50), g.Size())
}

func TestFile_OpenMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.cfs"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_TempRemovedOnClose(t *testing.T) {
	dir := t.TempDir()
	f, err := CreateTemp(dir)
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(f.Path()))

	require.NoError(t, f.Truncate(4096))
	f.Bytes()[0] = 0xAB

	_, err = os.Stat(f.Path())
	require.NoError(t, err)

	require.NoError(t, f.Close())
	_, err = os.Stat(f.Path())
	require.ErrorIs(t, err, os.ErrNotExist)

	require.ErrorIs(t, f.Truncate(10), ErrClosed)
}

func TestFile_TempNamesAreUnique(t *testing.T) {
	dir := t.TempDir()
	a, err := CreateTemp(dir)
	require.NoError(t, err)
	defer a.Close()
	b, err := CreateTemp(dir)
	require.NoError(t, err)
	defer b.Close()
	require.NotEqual(t, a.Path(), b.Path())
}
