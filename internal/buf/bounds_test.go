package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	tests := []struct {
		a, b int
		want int
		ok   bool
	}{
		{40, 4096, 4136, true},
		{-4, 4, 0, true},
		{math.MaxInt, 1, 0, false},
		{math.MinInt, -1, 0, false},
	}
	for _, tt := range tests {
		got, ok := AddOverflowSafe(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "%d + %d", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "%d + %d", tt.a, tt.b)
	}
}

func TestMulOverflowSafe_ClusterArea(t *testing.T) {
	// count * clusterSize as read from a header
	got, ok := MulOverflowSafe(16, 256)
	require.True(t, ok)
	assert.Equal(t, 4096, got)

	got, ok = MulOverflowSafe(0, math.MaxInt32)
	require.True(t, ok, "an empty area never overflows")
	assert.Zero(t, got)

	_, ok = MulOverflowSafe(math.MaxInt/2+1, 2)
	assert.False(t, ok)
	_, ok = MulOverflowSafe(math.MinInt/2-1, 2)
	assert.False(t, ok)
	_, ok = MulOverflowSafe(-2, math.MaxInt)
	assert.False(t, ok)
	_, ok = MulOverflowSafe(math.MinInt, -1)
	assert.False(t, ok)
}

func TestSlice_SpanProbe(t *testing.T) {
	// Two 8-byte clusters: the span of cluster 1 sits at 8..12.
	data := make([]byte, 16)
	data[8] = 3

	span, ok := Slice(data, 8, 4)
	require.True(t, ok)
	assert.Equal(t, []byte{3, 0, 0, 0}, span)

	assert.True(t, Has(data, 12, 4), "last bytes of the area")
	assert.False(t, Has(data, 16, 4), "a cluster past the end")
	assert.False(t, Has(data, 14, 4))
	assert.True(t, Has(data, 16, 0))

	_, ok = Slice(data, -1, 4)
	assert.False(t, ok)
	_, ok = Slice(data, 0, -1)
	assert.False(t, ok)
	_, ok = Slice(data, math.MaxInt, 1)
	assert.False(t, ok)
}
