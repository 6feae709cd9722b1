package cfs

import (
	"errors"
	"fmt"

	"github.com/joshuapare/cfskit/internal/format"
)

var (
	// ErrHeaderNotFound indicates the sequence is shorter than the header.
	ErrHeaderNotFound = format.ErrHeaderNotFound

	// ErrClusterAreaNotFound indicates the sequence length disagrees with
	// the cluster counter and cluster size.
	ErrClusterAreaNotFound = format.ErrClusterAreaNotFound

	// ErrSpanChain indicates span fields that do not tile the cluster area.
	ErrSpanChain = errors.New("cfs: corrupt span chain")

	// ErrNoSpace indicates a chain could not be expanded.
	ErrNoSpace = errors.New("cfs: no space to expand cluster")

	// ErrOutOfRange indicates an index or cursor outside its bounds.
	ErrOutOfRange = errors.New("cfs: out of range")

	// ErrEndOfCluster indicates a read past the end of a payload.
	ErrEndOfCluster = fmt.Errorf("%w: end of cluster", ErrOutOfRange)

	// ErrNotChainHead indicates a physical index inside a chain's tail.
	ErrNotChainHead = fmt.Errorf("%w: not a chain head", ErrOutOfRange)

	// ErrUsage indicates a violated call protocol.
	ErrUsage = errors.New("cfs: usage")

	ErrTxOpen      = fmt.Errorf("%w: transaction already open", ErrUsage)
	ErrTxNotOpen   = fmt.Errorf("%w: transaction not open", ErrUsage)
	ErrTxRemove    = fmt.Errorf("%w: cannot free clusters through a transaction", ErrUsage)
	ErrFreeCluster = fmt.Errorf("%w: cluster is free", ErrUsage)

	// ErrClosed indicates use of a closed store.
	ErrClosed = errors.New("cfs: store closed")

	// ErrClusterSize indicates a cluster size that cannot hold a span field
	// and at least one payload byte.
	ErrClusterSize = errors.New("cfs: cluster size too small")
)
