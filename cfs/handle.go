package cfs

import (
	"fmt"
	"io"

	"github.com/joshuapare/cfskit/internal/format"
)

// Handle is a bounds-checked cursor over one slot's payload. A chain of k
// clusters exposes k*clusterSize-4 payload bytes: the span fields of the
// tail clusters are part of the payload.
//
// Writes that do not fit ask the issuing Allocator to expand the chain.
// A Handle must not be used after an Allocate, Free or Commit on its
// allocator.
type Handle struct {
	a     Allocator
	index int
	pos   int64 // payload start within a.seq()
	area  int64 // offset of cluster 0 within a.seq()
	csize int64
	used  int
	size  int64
	off   int64 // cursor, relative to pos
}

func newHandle(a Allocator, index int, pos int64, used int, area, csize int64) *Handle {
	return &Handle{
		a:     a,
		index: index,
		pos:   pos,
		area:  area,
		csize: csize,
		used:  used,
		size:  int64(max(used, 1))*csize - format.SpanSize,
	}
}

// Allocator returns the allocator that issued h.
func (h *Handle) Allocator() Allocator { return h.a }

// Index returns the logical index of h's slot.
func (h *Handle) Index() int { return h.index }

// Cluster returns the physical ordinal of h's first cluster.
func (h *Handle) Cluster() int64 {
	return (h.pos - format.SpanSize - h.area) / h.csize
}

// Position returns the absolute payload start.
func (h *Handle) Position() int64 { return h.pos }

// Size returns the payload capacity in bytes.
func (h *Handle) Size() int64 { return h.size }

// Used returns the chain length in clusters; 0 for a free slot.
func (h *Handle) Used() int { return h.used }

// Free reports whether h addresses a free slot.
func (h *Handle) Free() bool { return h.used == 0 }

// Offset returns the cursor position relative to the payload start.
func (h *Handle) Offset() int64 { return h.off }

// Remaining returns the payload bytes after the cursor.
func (h *Handle) Remaining() int64 { return h.size - h.off }

// Seek implements io.Seeker within the payload. The cursor cannot move past
// Size.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = h.off + offset
	case io.SeekEnd:
		abs = h.size + offset
	default:
		return h.off, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if abs < 0 || abs > h.size {
		return h.off, fmt.Errorf("seek to %d of %d: %w", abs, h.size, ErrOutOfRange)
	}
	h.off = abs
	return abs, nil
}

// Payload returns a copy of the whole payload, or nil when the handle no
// longer fits its sequence.
func (h *Handle) Payload() []byte {
	if h.live() != nil {
		return nil
	}
	out := make([]byte, h.size)
	copy(out, h.a.seq()[h.pos:h.pos+h.size])
	return out
}

// Clear zeroes the payload and rewinds the cursor.
func (h *Handle) Clear() error {
	if h.used == 0 {
		return ErrFreeCluster
	}
	if err := h.live(); err != nil {
		return err
	}
	clear(h.a.seq()[h.pos : h.pos+h.size])
	h.a.touch(h.pos, h.size)
	h.off = 0
	return nil
}

// grown records a one-cluster expansion performed by the allocator.
func (h *Handle) grown() {
	h.used++
	h.size += h.csize
}

// reserve makes sure n bytes fit after the cursor, expanding as needed.
func (h *Handle) reserve(n int64) error {
	if h.used == 0 {
		return ErrFreeCluster
	}
	if err := h.live(); err != nil {
		return err
	}
	for h.size-h.off < n {
		if err := h.a.Expand(h); err != nil {
			return err
		}
	}
	return nil
}

// need checks that n bytes can be read after the cursor.
func (h *Handle) need(n int64) error {
	if err := h.live(); err != nil {
		return err
	}
	if h.size-h.off < n {
		return fmt.Errorf("read %d bytes at %d of %d: %w", n, h.off, h.size, ErrEndOfCluster)
	}
	return nil
}

// live fails once the allocator's sequence no longer covers the payload,
// e.g. after the store was closed.
func (h *Handle) live() error {
	if int64(len(h.a.seq())) < h.pos+h.size {
		return fmt.Errorf("%w: handle outlived its sequence", ErrClosed)
	}
	return nil
}

// at returns the absolute offset of the cursor.
func (h *Handle) at() int { return int(h.pos + h.off) }

func (h *Handle) String() string {
	return fmt.Sprintf("cluster[%d] @0x%X used=%d size=%d", h.index, h.pos, h.used, h.size)
}
