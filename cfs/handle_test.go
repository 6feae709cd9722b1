package cfs

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfskit/cfs/backing"
)

func TestHandle_TypedRoundTrip(t *testing.T) {
	s := newTestStore(t, 16, 1)
	h, err := s.Allocate()
	require.NoError(t, err)

	require.NoError(t, h.WriteBool(true))
	require.NoError(t, h.WriteByte(0xAB))
	require.NoError(t, h.WriteInt16(-2))
	require.NoError(t, h.WriteUint16(0xBEEF))
	require.NoError(t, h.WriteInt32(math.MinInt32))
	require.NoError(t, h.WriteUint32(0xDEADBEEF))
	require.NoError(t, h.WriteInt64(-1234567890123))
	require.NoError(t, h.WriteUint64(math.MaxUint64))
	require.NoError(t, h.WriteString("héllo"))
	require.NoError(t, h.WriteBytes([]byte{1, 2, 3}))
	require.NoError(t, h.WriteBool(false))
	end := h.Offset()
	requireTiling(t, s)

	p, err := s.Peek(0, Logical)
	require.NoError(t, err)
	assert.Equal(t, h.Used(), p.Used())

	b, err := p.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	c, err := p.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), c)
	i16, err := p.ReadInt16()
	require.NoError(t, err)
	assert.EqualValues(t, -2, i16)
	u16, err := p.ReadUint16()
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, u16)
	i32, err := p.ReadInt32()
	require.NoError(t, err)
	assert.EqualValues(t, math.MinInt32, i32)
	u32, err := p.ReadUint32()
	require.NoError(t, err)
	assert.EqualValues(t, uint32(0xDEADBEEF), u32)
	i64, err := p.ReadInt64()
	require.NoError(t, err)
	assert.EqualValues(t, -1234567890123, i64)
	u64, err := p.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
	str, err := p.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", str)
	bs, err := p.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, bs)
	b, err = p.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
	assert.Equal(t, end, p.Offset())
}

func TestHandle_LittleEndian(t *testing.T) {
	s := newTestStore(t, 16, 1)
	h, err := s.Allocate()
	require.NoError(t, err)
	require.NoError(t, h.WriteUint32(0x01020304))
	assert.Equal(t, []byte{4, 3, 2, 1}, s.b.Bytes()[44:48])
}

func TestHandle_StringEncoding(t *testing.T) {
	s := newTestStore(t, 256, 1)
	h, err := s.Allocate()
	require.NoError(t, err)

	long := strings.Repeat("x", 200)
	require.NoError(t, h.WriteString(long))
	assert.EqualValues(t, 202, h.Offset(), "200 needs a two-byte length")
	assert.Equal(t, []byte{0xC8, 0x01}, s.b.Bytes()[44:46])

	require.NoError(t, h.WriteString("a\xffb"))
	_, err = h.Seek(202, io.SeekStart)
	require.NoError(t, err)
	got, err := h.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "a�b", got)
}

func TestHandle_ReadPastEnd(t *testing.T) {
	s := newTestStore(t, 16, 1)
	h, err := s.Allocate()
	require.NoError(t, err)

	_, err = h.ReadBytes(13)
	require.ErrorIs(t, err, ErrEndOfCluster)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = h.ReadBytes(-1)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = h.Seek(10, io.SeekStart)
	require.NoError(t, err)
	_, err = h.ReadUint32()
	require.ErrorIs(t, err, ErrEndOfCluster)
	assert.EqualValues(t, 10, h.Offset())

	_, err = h.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	_, err = h.ReadByte()
	require.ErrorIs(t, err, ErrEndOfCluster)
	_, err = h.ReadString()
	require.ErrorIs(t, err, ErrEndOfCluster)

	// A length prefix claiming more than the payload holds.
	_, err = h.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.NoError(t, h.WriteByte(50))
	_, err = h.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = h.ReadString()
	require.ErrorIs(t, err, ErrEndOfCluster)
}

func TestHandle_Seek(t *testing.T) {
	s := newTestStore(t, 16, 1)
	h, err := s.Allocate()
	require.NoError(t, err)

	pos, err := h.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)
	pos, err = h.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 6, pos)
	assert.EqualValues(t, 6, h.Remaining())
	pos, err = h.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.EqualValues(t, 10, pos)

	_, err = h.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = h.Seek(13, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = h.Seek(0, 42)
	require.Error(t, err)
	assert.EqualValues(t, 10, h.Offset())
}

func TestHandle_ReaderWriter(t *testing.T) {
	s := newTestStore(t, 16, 2)
	h, err := s.Allocate()
	require.NoError(t, err)

	data := pattern(30, 1)
	n, err := io.Copy(h, strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.EqualValues(t, 30, n)

	p, err := s.Peek(0, Logical)
	require.NoError(t, err)
	all, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, all, int(p.Size()))
	assert.Equal(t, data, all[:30])
}

func TestHandle_Clear(t *testing.T) {
	s := newTestStore(t, 16, 1)
	h := allocWrite(t, s, pattern(12, 1))
	require.NoError(t, h.Clear())
	assert.Zero(t, h.Offset())
	assert.Equal(t, make([]byte, 12), h.Payload())
	assert.EqualValues(t, 1, s.table.at(0).used, "clearing keeps the span")

	require.NoError(t, s.Free(0, Logical))
	free, err := s.Peek(0, Logical)
	require.NoError(t, err)
	require.ErrorIs(t, free.Clear(), ErrFreeCluster)
}

func TestHandle_Accessors(t *testing.T) {
	s := newTestStore(t, 16, 4)
	_, err := s.Allocate()
	require.NoError(t, err)
	h := allocWrite(t, s, pattern(20, 0))

	assert.Equal(t, Allocator(s), h.Allocator())
	assert.Equal(t, 1, h.Index())
	assert.EqualValues(t, 1, h.Cluster())
	assert.EqualValues(t, 60, h.Position())
	assert.EqualValues(t, 28, h.Size())
	assert.EqualValues(t, 8, h.Remaining())
	assert.False(t, h.Free())
	assert.Equal(t, "cluster[1] @0x3C used=2 size=28", h.String())
}

func TestHandle_AfterClose(t *testing.T) {
	s, err := Create(backing.NewMemory(0), CreateConfig{ClusterSize: 16, Capacity: 1}, nil)
	require.NoError(t, err)
	h, err := s.Allocate()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.ErrorIs(t, h.WriteByte(1), ErrClosed)
	_, err = h.ReadByte()
	require.ErrorIs(t, err, ErrClosed)
	_, err = h.ReadString()
	require.ErrorIs(t, err, ErrClosed)
	_, err = h.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, h.Payload())
}
