// Package record maps typed values onto store clusters through a
// Serializer. It is the typed layer above cfs handles: one value per
// logical slot, written either directly or through a transaction.
package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/cfskit/cfs"
)

// Serializer converts values of type T to and from a cluster payload.
//
// Serialize and Deserialize receive a handle positioned at payload start.
// CanDeserialize may move the cursor; it is rewound before Deserialize.
type Serializer[T any] interface {
	CanSerialize(v T) bool
	Serialize(v T, h *cfs.Handle) error
	CanDeserialize(h *cfs.Handle) bool
	Deserialize(h *cfs.Handle) (T, error)
}

// Items decodes every occupied slot the serializer accepts, in logical
// order. Slots it rejects are skipped.
func Items[T any](s *cfs.Store, ser Serializer[T]) ([]T, error) {
	var out []T
	it := s.Clusters(cfs.Logical, false)
	for {
		h, err := it.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if !ser.CanDeserialize(h) {
			continue
		}
		if _, err := h.Seek(0, io.SeekStart); err != nil {
			return out, err
		}
		v, err := ser.Deserialize(h)
		if err != nil {
			return out, fmt.Errorf("record %d: %w", h.Index(), err)
		}
		out = append(out, v)
	}
}

// Add stores v in a new slot. With useTx the value is staged in a fresh
// transaction that is committed and ended before Add returns; this fails
// with cfs.ErrTxOpen when a transaction is already attached. It reports
// false when the serializer rejects v.
func Add[T any](s *cfs.Store, v T, ser Serializer[T], useTx bool) (bool, error) {
	if !ser.CanSerialize(v) {
		return false, nil
	}
	if useTx {
		n, err := AddBatch(s, []T{v}, ser, cfs.DefaultTxConfig())
		return n == 1, err
	}

	h, err := s.Allocate()
	if err != nil {
		return false, err
	}
	if err := ser.Serialize(v, h); err != nil {
		// Give the slot back unless the store routed the allocation into an
		// attached transaction, which cannot free.
		if h.Allocator() == cfs.Allocator(s) {
			err = errors.Join(err, s.Free(h.Index(), cfs.Logical))
		}
		return false, fmt.Errorf("serialize: %w", err)
	}
	return true, nil
}

// AddBatch stages every value the serializer accepts in one transaction and
// commits them together. It returns the number of values stored. On error
// nothing is committed.
func AddBatch[T any](s *cfs.Store, items []T, ser Serializer[T], cfg cfs.TxConfig) (int, error) {
	tx, err := s.Begin(cfg)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, v := range items {
		if !ser.CanSerialize(v) {
			continue
		}
		h, err := tx.Allocate()
		if err != nil {
			return 0, errors.Join(err, tx.Close())
		}
		if err := ser.Serialize(v, h); err != nil {
			return 0, errors.Join(fmt.Errorf("serialize item %d: %w", i, err), tx.Close())
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Join(err, tx.Close())
	}
	return n, tx.Close()
}
