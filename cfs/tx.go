package cfs

import (
	"errors"
	"fmt"

	"github.com/joshuapare/cfskit/cfs/backing"
	"github.com/joshuapare/cfskit/internal/format"
)

// Staging growth defaults, in clusters.
const (
	DefaultTxInitialClusters = 128
	DefaultTxAllocateGrowth  = 128
	DefaultTxExpandGrowth    = 16
)

// TxConfig configures a transaction's staging area.
type TxConfig struct {
	// Dir holds the staging file. Empty stages in memory.
	Dir string

	// InitialClusters is the staging size after Begin and after each Commit.
	InitialClusters int64

	// AllocateGrowth is how far staging grows when a new record does not fit.
	AllocateGrowth int64

	// ExpandGrowth is how far staging grows when a record expands past the end.
	ExpandGrowth int64
}

// DefaultTxConfig returns an in-memory staging configuration with the
// default growth increments.
func DefaultTxConfig() TxConfig {
	return TxConfig{
		InitialClusters: DefaultTxInitialClusters,
		AllocateGrowth:  DefaultTxAllocateGrowth,
		ExpandGrowth:    DefaultTxExpandGrowth,
	}
}

func (c TxConfig) withDefaults() TxConfig {
	def := DefaultTxConfig()
	if c.InitialClusters <= 0 {
		c.InitialClusters = def.InitialClusters
	}
	if c.AllocateGrowth <= 0 {
		c.AllocateGrowth = def.AllocateGrowth
	}
	if c.ExpandGrowth <= 0 {
		c.ExpandGrowth = def.ExpandGrowth
	}
	return c
}

// Tx stages new records outside the store and merges them on Commit.
// Staged records are invisible to the store until then.
//
// Lifecycle: Begin → (Allocate/write)* → Commit → ... → Close.
// Commit may be called any number of times; each one empties staging.
type Tx struct {
	s      *Store
	cfg    TxConfig
	b      backing.Backing
	staged []entry // pos relative to the staging sequence
	csize  int64
	done   bool
}

// Begin attaches a new transaction. Only one may be attached at a time.
func (s *Store) Begin(cfg TxConfig) (*Tx, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.tx != nil {
		return nil, ErrTxOpen
	}
	cfg = cfg.withDefaults()

	var b backing.Backing
	if cfg.Dir == "" {
		b = backing.NewMemory(0)
	} else {
		f, err := backing.CreateTemp(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("begin: %w", err)
		}
		b = f
	}

	t := &Tx{s: s, cfg: cfg, b: b, csize: int64(s.hdr.ClusterSize)}
	if err := t.reset(); err != nil {
		return nil, errors.Join(fmt.Errorf("begin: %w", err), b.Close())
	}
	s.tx = t

	s.log.Debug("transaction begin", "dir", cfg.Dir, "initial_clusters", cfg.InitialClusters)
	return t, nil
}

// EndTransaction detaches the attached transaction and releases its staging
// area. Uncommitted records are discarded.
func (s *Store) EndTransaction() error {
	if s.tx == nil {
		return ErrTxNotOpen
	}
	t := s.tx
	s.tx = nil
	t.done = true
	t.staged = nil

	s.log.Debug("transaction end")
	return t.b.Close()
}

// Store returns the store t is attached to.
func (t *Tx) Store() *Store { return t.s }

// Len returns the number of staged records.
func (t *Tx) Len() int { return len(t.staged) }

// Config returns the effective staging configuration.
func (t *Tx) Config() TxConfig { return t.cfg }

// Allocate stages a new one-cluster record after the last staged one.
func (t *Tx) Allocate() (*Handle, error) {
	if t.done {
		return nil, ErrTxNotOpen
	}
	start := t.end()
	if t.b.Size() < start+t.csize {
		if err := t.growStaging(t.cfg.AllocateGrowth); err != nil {
			return nil, fmt.Errorf("allocate: %w", err)
		}
	}

	pos := start + format.SpanSize
	t.putSpan(pos, 1)
	t.staged = append(t.staged, entry{pos: pos, used: 1})
	t.s.stats.Allocations++
	return newHandle(t, len(t.staged)-1, pos, 1, 0, t.csize), nil
}

// Free is not supported on staged records.
func (t *Tx) Free(int, Indexing) error {
	return ErrTxRemove
}

// Peek returns a handle over the idx-th staged record.
func (t *Tx) Peek(idx int) (*Handle, error) {
	if t.done {
		return nil, ErrTxNotOpen
	}
	if idx < 0 || idx >= len(t.staged) {
		return nil, fmt.Errorf("peek: staged index %d of %d: %w", idx, len(t.staged), ErrOutOfRange)
	}
	e := t.staged[idx]
	return newHandle(t, idx, e.pos, e.used, 0, t.csize), nil
}

// Expand grows the newest staged record by one cluster. Older records are
// followed by another record and cannot grow.
func (t *Tx) Expand(h *Handle) error {
	if t.done {
		return ErrTxNotOpen
	}
	if h.a != Allocator(t) {
		return fmt.Errorf("expand: %w: handle issued by another allocator", ErrUsage)
	}
	n := len(t.staged)
	if n == 0 || t.staged[n-1].pos != h.pos {
		return fmt.Errorf("%w: staged record %d is not the newest", ErrNoSpace, h.index)
	}

	last := &t.staged[n-1]
	need := last.pos - format.SpanSize + int64(last.used+1)*t.csize
	if t.b.Size() < need {
		if err := t.growStaging(t.cfg.ExpandGrowth); err != nil {
			return fmt.Errorf("expand: %w", err)
		}
	}

	last.used++
	t.putSpan(last.pos, last.used)
	h.grown()
	t.s.stats.Expansions++
	return nil
}

// Commit merges all staged records into the store: one first-fit search for
// the whole batch, at most one growth of the store, one bulk copy. Staging
// is emptied afterwards and the transaction stays attached.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxNotOpen
	}
	s := t.s
	if s.closed {
		return ErrClosed
	}
	if len(t.staged) == 0 {
		return t.reset()
	}

	total := 0
	for _, e := range t.staged {
		total += e.used
	}
	tlen := int64(total) * t.csize

	// Target is the cluster start of the batch in the store.
	free := s.table.findFree(total)
	appended := free < 0
	target := s.structureLength()
	length := target + tlen
	if !appended {
		target = s.table.at(free).pos - format.SpanSize
		length = max(target+tlen, s.b.Size())
	} else {
		free = s.table.len()
	}

	for i, e := range t.staged {
		e.pos += target
		at := i + free
		last := min(at+e.used, s.table.len()) - 1
		if e.used > 1 && last > at {
			s.table.remove(at+1, last+1)
		}
		if at < s.table.len() {
			s.table.set(at, e)
		} else {
			s.table.push(e)
		}
	}

	if length > s.b.Size() {
		if err := s.grow((length - s.b.Size()) / t.csize); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}

	copy(s.b.Bytes()[target:target+tlen], t.b.Bytes()[:tlen])
	s.dirty.Add(target, tlen)

	s.stats.Commits++
	s.stats.CommittedClusters += uint64(total)
	s.log.Debug("transaction commit",
		"records", len(t.staged),
		"clusters", total,
		"target", target,
		"appended", appended)
	return t.reset()
}

// Close ends the transaction if it is still attached.
func (t *Tx) Close() error {
	if t.done {
		return nil
	}
	return t.s.EndTransaction()
}

func (t *Tx) seq() []byte { return t.b.Bytes() }

// touch is a no-op: staging is scratch space.
func (t *Tx) touch(int64, int64) {}

// end returns the staging offset just past the last staged record.
func (t *Tx) end() int64 {
	if len(t.staged) == 0 {
		return 0
	}
	last := t.staged[len(t.staged)-1]
	return last.pos - format.SpanSize + int64(last.used)*t.csize
}

func (t *Tx) putSpan(pos int64, used int) {
	format.PutI32(t.b.Bytes(), int(pos-format.SpanSize), int32(used))
}

func (t *Tx) growStaging(clusters int64) error {
	return t.b.Truncate(t.b.Size() + clusters*t.csize)
}

// reset empties staging back to its initial zeroed size.
func (t *Tx) reset() error {
	t.staged = t.staged[:0]
	if err := t.b.Truncate(0); err != nil {
		return err
	}
	return t.b.Truncate(t.cfg.InitialClusters * t.csize)
}
