package backing

// Memory is a slice-backed Backing.
type Memory struct {
	data   []byte
	closed bool
}

// NewMemory returns a zeroed in-memory sequence of n bytes.
func NewMemory(n int64) *Memory {
	if n < 0 {
		n = 0
	}
	return &Memory{data: make([]byte, n)}
}

// NewMemoryFrom wraps data without copying it.
func NewMemoryFrom(data []byte) *Memory {
	return &Memory{data: data[:len(data):len(data)]}
}

func (m *Memory) Bytes() []byte { return m.data }

func (m *Memory) Size() int64 { return int64(len(m.data)) }

// Truncate resizes the slice. Shrinking zeroes the dropped tail so that a
// later regrowth within capacity still reads as zero.
func (m *Memory) Truncate(n int64) error {
	if m.closed {
		return ErrClosed
	}
	if n < 0 {
		return ErrNegativeSize
	}
	switch cur := int64(len(m.data)); {
	case n <= cur:
		clear(m.data[n:])
		m.data = m.data[:n]
	case n <= int64(cap(m.data)):
		m.data = m.data[:n]
	default:
		grown := make([]byte, n, max(n, 2*int64(cap(m.data))))
		copy(grown, m.data)
		m.data = grown
	}
	return nil
}

func (m *Memory) FlushRange(off, n int64) error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Sync(bool) error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	m.closed = true
	m.data = nil
	return nil
}

// Compile-time interface check
var _ Backing = (*Memory)(nil)
