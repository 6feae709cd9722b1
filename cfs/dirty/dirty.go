package dirty

import (
	"context"
	"sort"

	"github.com/joshuapare/cfskit/internal/format"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64
)

// FlushMode controls durability guarantees for Flush.
type FlushMode int

const (
	// FlushAuto msyncs dirty data pages, then the header page, then fdatasyncs.
	FlushAuto FlushMode = iota

	// FlushDataOnly only msyncs. The caller is responsible for a later sync.
	FlushDataOnly

	// FlushFull is FlushAuto plus F_FULLFSYNC on macOS.
	FlushFull
)

// String implements fmt.Stringer.
func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range is a dirty byte range (absolute offsets).
type Range struct {
	Off int64
	Len int64
}

// Flusher is the part of a backing sequence the tracker needs.
type Flusher interface {
	Size() int64
	FlushRange(off, n int64) error
	Sync(full bool) error
}

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe.
type Tracker struct {
	f        Flusher
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker flushing through f.
func NewTracker(f Flusher) *Tracker {
	return &Tracker{
		f:        f,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: format.PageSize,
	}
}

// Add records a dirty range. Zero or negative lengths are ignored.
func (t *Tracker) Add(off, length int64) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Pending reports whether any range is waiting to be flushed.
func (t *Tracker) Pending() bool {
	return len(t.ranges) > 0
}

// FlushDataOnly flushes all dirty ranges except the header page and clears
// the pending list. A range merged with the header page is flushed from the
// second page on.
//
// If ctx is cancelled mid-way some ranges may already have been flushed.
func (t *Tracker) FlushDataOnly(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	size := t.f.Size()
	for _, r := range t.coalesce() {
		// The header page is flushed by FlushHeaderAndMeta; data pages merged
		// into the same range still go out here.
		if r.Off < t.pageSize {
			end := r.Off + r.Len
			r = Range{Off: t.pageSize, Len: max(end-t.pageSize, 0)}
			if r.Len == 0 {
				continue
			}
		}
		if r.Off >= size {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.f.FlushRange(r.Off, min(r.Len, size-r.Off)); err != nil {
			return err
		}
	}

	t.ranges = t.ranges[:0]
	return nil
}

// FlushHeaderAndMeta flushes the header page and syncs according to mode.
func (t *Tracker) FlushHeaderAndMeta(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	size := t.f.Size()
	if size == 0 {
		return nil
	}
	if err := t.f.FlushRange(0, min(t.pageSize, size)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == FlushDataOnly {
		return nil
	}
	return t.f.Sync(mode == FlushFull)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// DebugCoalescedRanges returns the page-aligned ranges a flush would write.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := format.AlignPageDown(r.Off)
		end := format.AlignPage(r.Off + r.Len)
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
