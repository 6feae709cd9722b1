//go:build linux || darwin || freebsd

package backing

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func (m *File) load(n int64) error {
	if n == 0 {
		m.data = nil
		m.size = 0
		return nil
	}
	if n > int64(^uint(0)>>1) {
		return fmt.Errorf("file too large to map (%d bytes)", n)
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}
	m.data = data
	m.size = n
	return nil
}

func (m *File) release() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// resize unmaps, truncates and remaps. On failure the previous mapping is
// restored when possible.
func (m *File) resize(n int64) error {
	old := m.size
	if err := m.release(); err != nil {
		return fmt.Errorf("backing: unmap before resize: %w", err)
	}
	if err := m.f.Truncate(n); err != nil {
		_ = m.load(old)
		return fmt.Errorf("backing: truncate to %d: %w", n, err)
	}
	if err := m.load(n); err != nil {
		_ = m.f.Truncate(old)
		_ = m.load(old)
		return fmt.Errorf("backing: remap after resize: %w", err)
	}
	return nil
}

// FlushRange msyncs the pages covering [off, off+n).
func (m *File) FlushRange(off, n int64) error {
	if m.f == nil {
		return ErrClosed
	}
	if m.data == nil || n <= 0 {
		return nil
	}
	return msyncRange(m.data, off, n)
}

// Sync flushes file data and metadata.
func (m *File) Sync(full bool) error {
	if m.f == nil {
		return ErrClosed
	}
	return fdatasync(int(m.f.Fd()), full)
}
