package cfs

import (
	"fmt"

	"github.com/joshuapare/cfskit/cfs/verify"
	"github.com/joshuapare/cfskit/internal/format"
)

// Allocate returns a handle over one cluster. The first free slot is reused;
// otherwise the store grows by one cluster. While a transaction is attached
// the allocation is staged in it instead.
func (s *Store) Allocate() (*Handle, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.tx != nil {
		return s.tx.Allocate()
	}

	idx := s.table.findFree(1)
	if idx >= 0 {
		e := s.table.at(idx)
		e.used = 1
		s.table.set(idx, e)
	} else {
		pos := s.structureLength() + format.SpanSize
		if err := s.grow(1); err != nil {
			return nil, fmt.Errorf("allocate: %w", err)
		}
		idx = s.table.len()
		s.table.push(entry{pos: pos, used: 1})
	}

	e := s.table.at(idx)
	s.putSpan(e.pos, 1)
	s.stats.Allocations++
	return s.handle(idx, e), nil
}

// Free releases the chain addressed by idx. Each of its clusters becomes a
// separate free slot and has its span field zeroed. Freeing a free slot is
// a no-op.
func (s *Store) Free(idx int, mode Indexing) error {
	if s.closed {
		return ErrClosed
	}
	lidx, err := s.resolve(idx, mode)
	if err != nil {
		return fmt.Errorf("free: %w", err)
	}

	e := s.table.at(lidx)
	if e.used == 0 {
		return nil
	}

	csize := int64(s.hdr.ClusterSize)
	s.table.set(lidx, entry{pos: e.pos})
	if e.used > 1 {
		tail := make([]entry, e.used-1)
		for i := range tail {
			tail[i] = entry{pos: e.pos + int64(i+1)*csize}
		}
		s.table.insert(lidx+1, tail...)
	}
	for i := 0; i < e.used; i++ {
		s.putSpan(e.pos+int64(i)*csize, 0)
	}

	s.stats.Frees++
	s.log.Debug("freed chain", "index", lidx, "clusters", e.used)
	return nil
}

// Peek returns a handle over the slot addressed by idx. Under physical
// indexing idx must name a free cluster or a chain head.
func (s *Store) Peek(idx int, mode Indexing) (*Handle, error) {
	if s.closed {
		return nil, ErrClosed
	}
	lidx, err := s.resolve(idx, mode)
	if err != nil {
		return nil, fmt.Errorf("peek: %w", err)
	}
	return s.handle(lidx, s.table.at(lidx)), nil
}

// Expand grows h's chain by one cluster: the following slot is absorbed when
// it is free, a chain at the tail of the area grows the store. Anything else
// fails with ErrNoSpace.
func (s *Store) Expand(h *Handle) error {
	if s.closed {
		return ErrClosed
	}
	if h.a != Allocator(s) {
		return fmt.Errorf("expand: %w: handle issued by another allocator", ErrUsage)
	}
	if h.used == 0 {
		return ErrFreeCluster
	}
	idx, ok := s.table.indexOf(h.pos)
	if !ok || s.table.at(idx).used != h.used {
		return fmt.Errorf("expand: %w: stale handle at 0x%X", ErrOutOfRange, h.pos)
	}

	e := s.table.at(idx)
	next := idx + 1
	switch {
	case next >= s.table.len():
		if err := s.grow(1); err != nil {
			return fmt.Errorf("expand: %w", err)
		}
	case s.table.at(next).used == 0:
		s.table.remove(next, next+1)
	default:
		return ErrNoSpace
	}

	e.used++
	s.table.set(idx, e)
	s.putSpan(e.pos, e.used)
	h.grown()

	s.stats.Expansions++
	s.log.Debug("expanded chain", "index", idx, "used", e.used)
	return nil
}

// IntegrityCheck re-derives the cluster count from the raw span fields,
// ignoring the surface table, and compares it to the stored counter.
// Structural failures are returned as errors.
func (s *Store) IntegrityCheck() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	data := s.b.Bytes()
	if err := format.CheckStructure(data); err != nil {
		return false, err
	}
	stored := format.ClusterCount(data)
	return stored == s.count && verify.CountClusters(data) == stored, nil
}

// resolve maps idx to a logical index.
func (s *Store) resolve(idx int, mode Indexing) (int, error) {
	switch mode {
	case Logical:
		if idx < 0 || idx >= s.table.len() {
			return -1, fmt.Errorf("logical index %d of %d: %w", idx, s.table.len(), ErrOutOfRange)
		}
		return idx, nil
	case Physical:
		if idx < 0 || int64(idx) >= s.count {
			return -1, fmt.Errorf("physical index %d of %d: %w", idx, s.count, ErrOutOfRange)
		}
		pos := format.ClusterOffset(int64(idx), s.hdr.ClusterSize) + format.SpanSize
		lidx, ok := s.table.indexOf(pos)
		if !ok {
			return -1, fmt.Errorf("physical index %d: %w", idx, ErrNotChainHead)
		}
		return lidx, nil
	default:
		return -1, fmt.Errorf("%w: unknown indexing %v", ErrUsage, mode)
	}
}

func (s *Store) handle(idx int, e entry) *Handle {
	return newHandle(s, idx, e.pos, e.used, format.ClusterAreaOffset, int64(s.hdr.ClusterSize))
}
