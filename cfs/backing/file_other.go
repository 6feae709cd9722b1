//go:build !linux && !darwin && !freebsd

package backing

import (
	"fmt"
	"io"
)

// load reads the whole file into memory when mmap isn't used.
func (m *File) load(n int64) error {
	m.size = n
	m.data = make([]byte, n)
	if n == 0 {
		return nil
	}
	if _, err := m.f.ReadAt(m.data, 0); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (m *File) release() error {
	if m.data == nil {
		return nil
	}
	_, err := m.f.WriteAt(m.data, 0)
	m.data = nil
	return err
}

func (m *File) resize(n int64) error {
	if err := m.f.Truncate(n); err != nil {
		return fmt.Errorf("backing: truncate to %d: %w", n, err)
	}
	grown := make([]byte, n)
	copy(grown, m.data)
	m.data = grown
	m.size = n
	return nil
}

// FlushRange writes [off, off+n) back to the file.
func (m *File) FlushRange(off, n int64) error {
	if m.f == nil {
		return ErrClosed
	}
	end := min(off+n, int64(len(m.data)))
	if off < 0 || off >= end {
		return nil
	}
	_, err := m.f.WriteAt(m.data[off:end], off)
	return err
}

func (m *File) Sync(bool) error {
	if m.f == nil {
		return ErrClosed
	}
	return m.f.Sync()
}
