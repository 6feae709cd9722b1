package cfs

import (
	"github.com/joshuapare/cfskit/internal/format"
	"github.com/joshuapare/cfskit/pkg/types"
)

// Indexing selects physical (cluster ordinal) or logical (surface entry)
// addressing.
type Indexing = types.Indexing

const (
	Logical  = types.Logical
	Physical = types.Physical
)

// Header is the decoded fixed header of a store.
type Header = format.Header

// Stats are the cumulative counters of a store.
type Stats = types.Stats

// Allocator issues handles and grows them on demand. *Store allocates
// directly in the cluster area; *Tx stages into a private sequence.
type Allocator interface {
	// Allocate returns a handle over one fresh cluster.
	Allocate() (*Handle, error)

	// Free releases the chain at idx.
	Free(idx int, mode Indexing) error

	// Expand grows h's chain by exactly one cluster or returns ErrNoSpace.
	Expand(h *Handle) error

	// seq is the byte sequence the allocator's handles point into.
	seq() []byte

	// touch records a modified range of seq.
	touch(off, n int64)
}

var (
	_ Allocator = (*Store)(nil)
	_ Allocator = (*Tx)(nil)
)
