package cfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/cfskit/cfs/backing"
	"github.com/joshuapare/cfskit/cfs/dirty"
	"github.com/joshuapare/cfskit/internal/format"
	"github.com/joshuapare/cfskit/pkg/types"
)

// Options configures an open store.
type Options struct {
	// Logger receives Debug events for growth, expansion and transactions.
	// Default: a logger that discards everything.
	Logger *slog.Logger

	// FlushMode controls the sync performed by Flush.
	// Default: dirty.FlushAuto
	FlushMode dirty.FlushMode
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		Logger:    slog.New(slog.DiscardHandler),
		FlushMode: dirty.FlushAuto,
	}
}

func (o *Options) withDefaults() Options {
	def := DefaultOptions()
	if o == nil {
		return def
	}
	out := *o
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	return out
}

// CreateConfig describes a new store.
type CreateConfig struct {
	// Version is free text of at most 15 UTF-8 bytes.
	Version string

	// ClusterSize is the physical cluster size including the 4-byte span.
	ClusterSize int32

	// ClusterMaxExpand is recorded in the header. It is not enforced.
	ClusterMaxExpand int32

	// Capacity is the number of free clusters created up front.
	Capacity int64

	// CreatedAt is stamped into the header. Zero means time.Now.
	CreatedAt time.Time
}

// DefaultCreateConfig returns the file helper defaults: 256-byte clusters,
// max expand 8, 16 clusters of initial capacity.
func DefaultCreateConfig(version string) CreateConfig {
	return CreateConfig{
		Version:          version,
		ClusterSize:      format.DefaultClusterSize,
		ClusterMaxExpand: format.DefaultClusterMaxExpand,
		Capacity:         format.DefaultCapacity,
	}
}

func (c CreateConfig) validate() error {
	if c.ClusterSize < format.MinClusterSize {
		return fmt.Errorf("%w: %d (min %d)", ErrClusterSize, c.ClusterSize, format.MinClusterSize)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrOutOfRange, c.Capacity)
	}
	if len(c.Version) > format.MaxVersionLen {
		return fmt.Errorf("%w: %d bytes (max %d)", format.ErrVersionTooLong, len(c.Version), format.MaxVersionLen)
	}
	return nil
}

// Store is an open cluster store.
//
// NOT thread-safe.
type Store struct {
	b      backing.Backing
	hdr    Header
	count  int64 // mirror of the on-disk global cluster counter
	table  *surface
	dirty  *dirty.Tracker
	tx     *Tx
	opts   Options
	log    *slog.Logger
	stats  Stats
	closed bool
}

// Create formats b as an empty store with cfg.Capacity free clusters.
// Any existing content of b is discarded.
func Create(b backing.Backing, cfg CreateConfig, opts *Options) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now()
	}

	length := format.StructureLength(cfg.Capacity, cfg.ClusterSize)
	if err := b.Truncate(0); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if err := b.Truncate(length); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	hdr := Header{
		Version:          cfg.Version,
		CreatedAt:        cfg.CreatedAt,
		ClusterSize:      cfg.ClusterSize,
		ClusterMaxExpand: cfg.ClusterMaxExpand,
	}
	data := b.Bytes()
	if err := format.EncodeHeader(data, hdr); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	format.PutClusterCount(data, cfg.Capacity)

	s := newStore(b, hdr, cfg.Capacity, opts)
	for i := int64(0); i < cfg.Capacity; i++ {
		s.table.push(entry{pos: format.ClusterOffset(i, hdr.ClusterSize) + format.SpanSize})
	}
	s.dirty.Add(0, length)

	s.log.Debug("created store",
		"version", hdr.Version,
		"cluster_size", hdr.ClusterSize,
		"capacity", cfg.Capacity)
	return s, nil
}

// Open validates b and rebuilds the surface table from its span fields.
func Open(b backing.Backing, opts *Options) (*Store, error) {
	data := b.Bytes()
	if err := format.CheckStructure(data); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	hdr, err := format.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	count := format.ClusterCount(data)
	s := newStore(b, hdr, count, opts)
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	s.log.Debug("opened store",
		"version", hdr.Version,
		"cluster_size", hdr.ClusterSize,
		"physical", count,
		"logical", s.table.len())
	return s, nil
}

func newStore(b backing.Backing, hdr Header, count int64, opts *Options) *Store {
	o := opts.withDefaults()
	return &Store{
		b:     b,
		hdr:   hdr,
		count: count,
		table: newSurface(int(min(count, 1<<16))),
		dirty: dirty.NewTracker(b),
		opts:  o,
		log:   o.Logger,
	}
}

// scan walks the cluster area by span stride and fills the surface table.
func (s *Store) scan() error {
	data := s.b.Bytes()
	for i := int64(0); i < s.count; {
		off := format.ClusterOffset(i, s.hdr.ClusterSize)
		span := int64(format.ReadI32(data, int(off)))
		switch {
		case span < 0:
			return fmt.Errorf("cluster %d has span %d: %w", i, span, ErrSpanChain)
		case i+max(span, 1) > s.count:
			return fmt.Errorf("cluster %d spans %d of %d remaining: %w", i, span, s.count-i, ErrSpanChain)
		}
		s.table.push(entry{pos: off + format.SpanSize, used: int(span)})
		i += max(span, 1)
	}
	return nil
}

// Header returns the decoded header.
func (s *Store) Header() Header { return s.hdr }

// Count returns the number of physical clusters.
func (s *Store) Count() int64 { return s.count }

// Len returns the number of logical slots (surface entries).
func (s *Store) Len() int { return s.table.len() }

// Size returns the length of the backing sequence.
func (s *Store) Size() int64 { return s.b.Size() }

// Backing returns the underlying sequence.
func (s *Store) Backing() backing.Backing { return s.b }

// Transaction returns the attached transaction, or nil.
func (s *Store) Transaction() *Tx { return s.tx }

// Stats returns cumulative counters plus the current cluster counts.
func (s *Store) Stats() Stats {
	st := s.stats
	st.PhysicalClusters = s.count
	st.LogicalClusters = int64(s.table.len())
	st.UsedClusters = s.table.usedClusters()
	return st
}

// Info summarizes the store for display.
func (s *Store) Info() types.Info {
	st := s.Stats()
	info := types.Info{
		Version:          s.hdr.Version,
		CreatedAt:        s.hdr.CreatedAt,
		ClusterSize:      s.hdr.ClusterSize,
		ClusterMaxExpand: s.hdr.ClusterMaxExpand,
		PhysicalClusters: st.PhysicalClusters,
		LogicalClusters:  st.LogicalClusters,
		UsedClusters:     st.UsedClusters,
		FreeClusters:     st.FreeClusters(),
		Size:             s.b.Size(),
	}
	if f, ok := s.b.(*backing.File); ok {
		info.Path = f.Path()
	}
	return info
}

// Flush writes dirty ranges to stable storage: data pages first, then the
// header page, then a sync according to Options.FlushMode.
func (s *Store) Flush(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.dirty.FlushDataOnly(ctx); err != nil {
		return fmt.Errorf("flush data: %w", err)
	}
	if err := s.dirty.FlushHeaderAndMeta(ctx, s.opts.FlushMode); err != nil {
		return fmt.Errorf("flush header: %w", err)
	}
	return nil
}

// Close ends an attached transaction and releases the backing sequence.
// Close does not sync; call Flush first for durability. Unflushed dirty
// ranges are dropped.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	var errs []error
	if s.tx != nil {
		errs = append(errs, s.EndTransaction())
	}
	errs = append(errs, s.b.Close())
	s.dirty.Reset()
	s.closed = true
	s.table = newSurface(0)
	return errors.Join(errs...)
}

func (s *Store) seq() []byte { return s.b.Bytes() }

func (s *Store) touch(off, n int64) { s.dirty.Add(off, n) }

// putSpan writes the span field of the cluster whose payload starts at pos.
func (s *Store) putSpan(pos int64, used int) {
	off := pos - format.SpanSize
	format.PutI32(s.b.Bytes(), int(off), int32(used))
	s.dirty.Add(off, format.SpanSize)
}

// grow appends n zeroed clusters and updates the global counter.
func (s *Store) grow(n int64) error {
	if n <= 0 {
		return nil
	}
	old := s.b.Size()
	length := format.StructureLength(s.count+n, s.hdr.ClusterSize)
	if err := s.b.Truncate(length); err != nil {
		return fmt.Errorf("grow to %d bytes: %w", length, err)
	}
	s.count += n
	format.PutClusterCount(s.b.Bytes(), s.count)
	s.dirty.Add(format.ClusterCountOffset, format.ClusterCountSize)

	s.stats.Grows++
	s.stats.GrowBytes += uint64(length - old)
	s.log.Debug("grew store", "clusters", n, "count", s.count, "bytes", length)
	return nil
}

// structureLength is the exact length the header and counter describe.
func (s *Store) structureLength() int64 {
	return format.StructureLength(s.count, s.hdr.ClusterSize)
}
