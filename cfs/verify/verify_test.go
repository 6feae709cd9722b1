package verify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfskit/internal/format"
)

// newImage builds a raw store image with the given span fields, one per
// physical cluster.
func newImage(t *testing.T, clusterSize int32, spans ...int32) []byte {
	t.Helper()
	data := make([]byte, format.StructureLength(int64(len(spans)), clusterSize))
	require.NoError(t, format.EncodeHeader(data, format.Header{
		Version:     "1.0",
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ClusterSize: clusterSize,
	}))
	format.PutClusterCount(data, int64(len(spans)))
	for i, s := range spans {
		format.PutI32(data, int(format.ClusterOffset(int64(i), clusterSize)), s)
	}
	return data
}

func requireValidationType(t *testing.T, err error, typ string) {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %T", err)
	assert.Equal(t, typ, ve.Type)
}

func TestAllInvariants_Valid(t *testing.T) {
	data := newImage(t, 16, 0, 2, 0, 1, 0)
	require.NoError(t, AllInvariants(data))
	assert.EqualValues(t, 5, CountClusters(data))
}

func TestAllInvariants_Empty(t *testing.T) {
	data := newImage(t, 16)
	require.NoError(t, AllInvariants(data))
	assert.Zero(t, CountClusters(data))
}

func TestHeader(t *testing.T) {
	requireValidationType(t, Header(make([]byte, 10)), "Header")

	data := newImage(t, 16, 0)
	data[format.VersionOffset] = 0x7F // length past the slot
	requireValidationType(t, Header(data), "Header")

	data = newImage(t, 16, 0)
	format.PutI32(data, format.ClusterSizeOffset, 4)
	requireValidationType(t, Header(data), "Header")

	data = newImage(t, 16, 0)
	data[format.VersionOffset+1] = 0xFF
	requireValidationType(t, Header(data), "Header")
}

func TestFileSize(t *testing.T) {
	requireValidationType(t, FileSize(make([]byte, format.HeaderSize)), "FileSize")

	data := newImage(t, 16, 0, 0)
	requireValidationType(t, FileSize(data[:len(data)-1]), "FileSize")
	requireValidationType(t, FileSize(append(data, 0)), "FileSize")

	format.PutClusterCount(data, -1)
	requireValidationType(t, FileSize(data), "FileSize")
}

func TestSpanChain(t *testing.T) {
	t.Run("overrun", func(t *testing.T) {
		data := newImage(t, 16, 0, 3, 0)
		requireValidationType(t, SpanChain(data), "SpanChain")
		assert.EqualValues(t, 4, CountClusters(data), "overrun counts past the counter")
	})

	t.Run("negative", func(t *testing.T) {
		data := newImage(t, 16, -2, 0)
		requireValidationType(t, SpanChain(data), "SpanChain")
	})

	t.Run("chain to end", func(t *testing.T) {
		data := newImage(t, 16, 1, 3, 9, 9)
		require.NoError(t, SpanChain(data))
		assert.EqualValues(t, 4, CountClusters(data))
	})
}

func TestValidationErrorString(t *testing.T) {
	e := &ValidationError{Type: "T", Message: "m", Offset: 0x28}
	assert.Equal(t, "T at offset 0x28: m", e.Error())
	e.Offset = -1
	assert.Equal(t, "T: m", e.Error())
}

func TestCountClusters_Truncated(t *testing.T) {
	data := newImage(t, 16, 0, 2, 0)
	format.PutClusterCount(data, 9)
	requireValidationType(t, FileSize(data), "FileSize")
	assert.EqualValues(t, 3, CountClusters(data))

	assert.Zero(t, CountClusters(data[:20]))
	format.PutI32(data, format.ClusterSizeOffset, 0)
	assert.Zero(t, CountClusters(data))
}
