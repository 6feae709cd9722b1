package cfs

import (
	"fmt"
	"io"

	"github.com/joshuapare/cfskit/internal/format"
)

// Iterator walks the store's slots and yields a Handle per slot. Its bound
// is fixed when the iterator is created; each call to Clusters starts a new
// walk from the beginning.
type Iterator struct {
	s           *Store
	mode        Indexing
	includeFree bool
	next        int64 // physical ordinal or logical index
	end         int64
	err         error
}

// Clusters returns an iterator over the store. Physical iteration reads span
// fields from the backing sequence and skips over chain tails; logical
// iteration walks the surface table. Free slots are yielded only when
// includeFree is set.
//
// Example:
//
//	it := s.Clusters(cfs.Logical, false)
//	for {
//	    h, err := it.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
func (s *Store) Clusters(mode Indexing, includeFree bool) *Iterator {
	it := &Iterator{s: s, mode: mode, includeFree: includeFree}
	switch mode {
	case Physical:
		it.end = s.count
	case Logical:
		it.end = int64(s.table.len())
	default:
		it.err = fmt.Errorf("%w: unknown indexing %v", ErrUsage, mode)
	}
	return it
}

// Next returns the next handle, or io.EOF when the walk is done.
func (it *Iterator) Next() (*Handle, error) {
	if it.err != nil {
		return nil, it.err
	}
	for {
		if it.s.closed {
			return nil, ErrClosed
		}
		var (
			h   *Handle
			err error
		)
		switch it.mode {
		case Physical:
			h, err = it.nextPhysical()
		default:
			h, err = it.nextLogical()
		}
		if err != nil {
			it.err = err
			return nil, err
		}
		if h == nil {
			continue
		}
		return h, nil
	}
}

// nextPhysical returns nil, nil for a skipped free cluster.
func (it *Iterator) nextPhysical() (*Handle, error) {
	s := it.s
	if it.next >= min(it.end, s.count) {
		return nil, io.EOF
	}
	i := it.next
	off := format.ClusterOffset(i, s.hdr.ClusterSize)
	span := int64(format.ReadI32(s.b.Bytes(), int(off)))
	if span < 0 || i+max(span, 1) > s.count {
		return nil, fmt.Errorf("cluster %d has span %d: %w", i, span, ErrSpanChain)
	}
	it.next += max(span, 1)
	if span == 0 && !it.includeFree {
		return nil, nil
	}

	pos := off + format.SpanSize
	lidx, ok := s.table.indexOf(pos)
	if !ok {
		return nil, fmt.Errorf("cluster %d is not a surface entry: %w", i, ErrSpanChain)
	}
	return newHandle(s, lidx, pos, int(span), format.ClusterAreaOffset, int64(s.hdr.ClusterSize)), nil
}

func (it *Iterator) nextLogical() (*Handle, error) {
	s := it.s
	if it.next >= min(it.end, int64(s.table.len())) {
		return nil, io.EOF
	}
	i := int(it.next)
	it.next++
	e := s.table.at(i)
	if e.used == 0 && !it.includeFree {
		return nil, nil
	}
	return s.handle(i, e), nil
}

// Collect drains the iterator.
func (it *Iterator) Collect() ([]*Handle, error) {
	var out []*Handle
	for {
		h, err := it.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, h)
	}
}
