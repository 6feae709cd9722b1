package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfskit/cfs"
	"github.com/joshuapare/cfskit/cfs/backing"
)

func newStore(t *testing.T, clusterSize int32, capacity int64) *cfs.Store {
	t.Helper()
	s, err := cfs.Create(backing.NewMemory(0), cfs.CreateConfig{
		Version:     "rec",
		ClusterSize: clusterSize,
		Capacity:    capacity,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAdd_Strings(t *testing.T) {
	s := newStore(t, 32, 4)

	for _, useTx := range []bool{false, true, false} {
		ok, err := Add(s, "value", Strings{}, useTx)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := Add(s, "bad\xff", Strings{}, true)
	require.NoError(t, err)
	assert.False(t, ok, "invalid UTF-8 is rejected by the serializer")

	got, err := Items(s, Strings{})
	require.NoError(t, err)
	assert.Equal(t, []string{"value", "value", "value"}, got)
	assert.Nil(t, s.Transaction())
}

func TestAdd_LongValueChains(t *testing.T) {
	s := newStore(t, 16, 2)
	long := strings.Repeat("chained ", 10)

	ok, err := Add(s, long, Strings{}, true)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := Items(s, Strings{})
	require.NoError(t, err)
	assert.Equal(t, []string{long}, got)

	intact, err := s.IntegrityCheck()
	require.NoError(t, err)
	assert.True(t, intact)
}

func TestAdd_TxAlreadyOpen(t *testing.T) {
	s := newStore(t, 16, 2)
	tx, err := s.Begin(cfs.DefaultTxConfig())
	require.NoError(t, err)
	defer tx.Close()

	_, err = Add(s, "x", Strings{}, true)
	require.ErrorIs(t, err, cfs.ErrTxOpen)

	ok, err := Add(s, "staged", Strings{}, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, tx.Len(), "direct adds route into the attached transaction")
}

func TestAddBatch(t *testing.T) {
	s := newStore(t, 16, 10)
	blobs := [][]byte{[]byte("aa"), make([]byte, 30), []byte("ccc"), nil}

	n, err := AddBatch(s, blobs, Blobs{MaxLen: 10}, cfs.DefaultTxConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, n, "the 30-byte blob exceeds MaxLen")
	assert.EqualValues(t, 1, s.Stats().Commits)

	got, err := Items(s, Blobs{})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("aa"), []byte("ccc"), {}}, got)
}

// failing rejects values at Serialize time after writing a partial payload.
type failing struct{ Strings }

func (failing) Serialize(v string, h *cfs.Handle) error {
	if err := h.WriteString(v); err != nil {
		return err
	}
	return errors.New("boom")
}

func TestAdd_SerializeErrorReleasesSlot(t *testing.T) {
	s := newStore(t, 16, 2)

	_, err := Add[string](s, "x", failing{}, false)
	require.Error(t, err)
	got, err := Items(s, Strings{})
	require.NoError(t, err)
	assert.Empty(t, got)

	before := s.Stats().Commits
	_, err = AddBatch[string](s, []string{"a", "b"}, failing{}, cfs.DefaultTxConfig())
	require.Error(t, err)
	assert.Equal(t, before, s.Stats().Commits)
	assert.Nil(t, s.Transaction())
}

func TestItems_SkipsRejected(t *testing.T) {
	s := newStore(t, 16, 4)

	_, err := Add(s, []byte("ok"), Blobs{}, false)
	require.NoError(t, err)
	h, err := s.Allocate()
	require.NoError(t, err)
	require.NoError(t, h.WriteInt32(1000)) // length past the payload

	got, err := Items(s, Blobs{})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("ok")}, got)
}
