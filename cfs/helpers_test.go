package cfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfskit/cfs/backing"
	"github.com/joshuapare/cfskit/internal/format"
)

var testTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

// newTestStore creates an in-memory store with capacity free clusters.
func newTestStore(t *testing.T, clusterSize int32, capacity int64) *Store {
	t.Helper()
	s, err := Create(backing.NewMemory(0), CreateConfig{
		Version:          "1.0",
		ClusterSize:      clusterSize,
		ClusterMaxExpand: 8,
		Capacity:         capacity,
		CreatedAt:        testTime,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// requireTiling asserts that the surface table tiles the cluster area, that
// every entry agrees with its on-disk span field, and that the raw integrity
// check passes.
func requireTiling(t *testing.T, s *Store) {
	t.Helper()
	csize := int64(s.hdr.ClusterSize)
	next := int64(format.ClusterAreaOffset + format.SpanSize)
	for i := 0; i < s.table.len(); i++ {
		e := s.table.at(i)
		require.Equal(t, next, e.pos, "entry %d position", i)
		require.GreaterOrEqual(t, e.used, 0, "entry %d used", i)
		span := format.ReadI32(s.b.Bytes(), int(e.pos-format.SpanSize))
		require.EqualValues(t, e.used, span, "entry %d span field", i)
		next += int64(max(e.used, 1)) * csize
	}
	require.Equal(t, s.structureLength()+format.SpanSize, next, "table must end at the area end")
	require.Equal(t, s.structureLength(), s.b.Size())

	ok, err := s.IntegrityCheck()
	require.NoError(t, err)
	require.True(t, ok, "integrity check")
}

// uses returns the used field of every surface entry.
func uses(s *Store) []int {
	out := make([]int, s.table.len())
	for i := range out {
		out[i] = s.table.at(i).used
	}
	return out
}

// allocWrite allocates a cluster and writes p into it.
func allocWrite(t *testing.T, a Allocator, p []byte) *Handle {
	t.Helper()
	h, err := a.Allocate()
	require.NoError(t, err)
	_, err = h.Write(p)
	require.NoError(t, err)
	return h
}

func pattern(n int, seed byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}
