package dirty

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFlusher records FlushRange and Sync calls.
type mockFlusher struct {
	size      int64
	flushed   []Range
	syncCalls int
	lastFull  bool
	failFlush bool
}

func (m *mockFlusher) Size() int64 { return m.size }

func (m *mockFlusher) FlushRange(off, n int64) error {
	if m.failFlush {
		return errors.New("flush failed")
	}
	m.flushed = append(m.flushed, Range{Off: off, Len: n})
	return nil
}

func (m *mockFlusher) Sync(full bool) error {
	m.syncCalls++
	m.lastFull = full
	return nil
}

func Test_DirtyTracker_PageAlignment(t *testing.T) {
	tr := NewTracker(&mockFlusher{size: 1 << 16})
	tr.Add(100, 200)

	got := tr.DebugCoalescedRanges()
	require.Len(t, got, 1)
	assert.Equal(t, Range{Off: 0, Len: 4096}, got[0])
}

func Test_DirtyTracker_Coalesce(t *testing.T) {
	tr := NewTracker(&mockFlusher{size: 1 << 16})
	tr.Add(0x5000, 10)
	tr.Add(0x0, 10)
	tr.Add(0x1000, 0x1001) // spans into page 2
	tr.Add(0x6000, 1)
	tr.Add(0x8000, 0) // ignored

	got := tr.DebugCoalescedRanges()
	assert.Equal(t, []Range{
		{Off: 0x0, Len: 0x3000},
		{Off: 0x5000, Len: 0x2000},
	}, got)
	assert.Len(t, tr.DebugRanges(), 4)
}

func Test_DirtyTracker_FlushDataSkipsHeaderPage(t *testing.T) {
	f := &mockFlusher{size: 0x6000}
	tr := NewTracker(f)
	tr.Add(0x28, 4)
	tr.Add(0x4000, 8)
	tr.Add(0x9000, 8) // beyond the sequence, dropped

	require.True(t, tr.Pending())
	require.NoError(t, tr.FlushDataOnly(context.Background()))
	assert.Equal(t, []Range{{Off: 0x4000, Len: 0x1000}}, f.flushed)
	assert.False(t, tr.Pending())

	require.NoError(t, tr.FlushHeaderAndMeta(context.Background(), FlushFull))
	assert.Equal(t, Range{Off: 0, Len: 0x1000}, f.flushed[1])
	assert.Equal(t, 1, f.syncCalls)
	assert.True(t, f.lastFull)
}

func Test_DirtyTracker_FlushDataAdjacentToHeader(t *testing.T) {
	f := &mockFlusher{size: 0x6000}
	tr := NewTracker(f)
	tr.Add(0x20, 8)    // cluster counter
	tr.Add(0x1010, 64) // payload in the second page

	require.Equal(t, []Range{{Off: 0, Len: 0x2000}}, tr.DebugCoalescedRanges())
	require.NoError(t, tr.FlushDataOnly(context.Background()))
	require.NoError(t, tr.FlushHeaderAndMeta(context.Background(), FlushDataOnly))

	assert.Equal(t, []Range{
		{Off: 0x1000, Len: 0x1000},
		{Off: 0, Len: 0x1000},
	}, f.flushed)
	assert.Zero(t, f.syncCalls)
}

func Test_DirtyTracker_FlushDataAdjacentToHeaderClamped(t *testing.T) {
	f := &mockFlusher{size: 0x1800}
	tr := NewTracker(f)
	tr.Add(0xFF0, 0x20) // straddles the header page boundary

	require.NoError(t, tr.FlushDataOnly(context.Background()))
	assert.Equal(t, []Range{{Off: 0x1000, Len: 0x800}}, f.flushed)
}

func Test_DirtyTracker_DataOnlyModeSkipsSync(t *testing.T) {
	f := &mockFlusher{size: 100}
	tr := NewTracker(f)
	require.NoError(t, tr.FlushHeaderAndMeta(context.Background(), FlushDataOnly))
	assert.Equal(t, []Range{{Off: 0, Len: 100}}, f.flushed)
	assert.Zero(t, f.syncCalls)
}

func Test_DirtyTracker_Cancelled(t *testing.T) {
	f := &mockFlusher{size: 0x10000}
	tr := NewTracker(f)
	tr.Add(0x4000, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, tr.FlushDataOnly(ctx), context.Canceled)
	require.ErrorIs(t, tr.FlushHeaderAndMeta(ctx, FlushAuto), context.Canceled)
	assert.True(t, tr.Pending(), "ranges survive a cancelled flush")
}

func Test_DirtyTracker_FlushErrorKeepsRanges(t *testing.T) {
	f := &mockFlusher{size: 0x10000, failFlush: true}
	tr := NewTracker(f)
	tr.Add(0x4000, 1)
	require.Error(t, tr.FlushDataOnly(context.Background()))
	assert.True(t, tr.Pending())

	tr.Reset()
	assert.False(t, tr.Pending())
}
