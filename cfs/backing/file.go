package backing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File is a file-backed sequence. On unix platforms the file is mapped
// read-write and shared, so stores mutate it in place.
type File struct {
	f    *os.File
	path string
	data []byte
	size int64
	temp bool
}

// OpenFile opens an existing file read-write.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return newFile(f, path, false)
}

// CreateFile creates (or truncates) path.
func CreateFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return newFile(f, path, false)
}

// CreateTemp creates a uniquely named scratch file in dir. The file is
// removed when the backing is closed.
func CreateTemp(dir string) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "~cfs_"+uuid.NewString()+".tmp")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	return newFile(f, path, true)
}

func newFile(f *os.File, path string, temp bool) (*File, error) {
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	m := &File{f: f, path: path, temp: temp}
	if err := m.load(st.Size()); err != nil {
		_ = f.Close()
		if temp {
			_ = os.Remove(path)
		}
		return nil, fmt.Errorf("backing: load %s: %w", path, err)
	}
	return m, nil
}

func (m *File) Bytes() []byte { return m.data }

func (m *File) Size() int64 { return m.size }

// Path returns the file's path.
func (m *File) Path() string { return m.path }

// FD returns the descriptor, or -1 once closed.
func (m *File) FD() int {
	if m == nil || m.f == nil {
		return -1
	}
	return int(m.f.Fd())
}

// Truncate resizes the file and its mapping.
func (m *File) Truncate(n int64) error {
	if m.f == nil {
		return ErrClosed
	}
	if n < 0 {
		return ErrNegativeSize
	}
	if n == m.size {
		return nil
	}
	return m.resize(n)
}

// Close unmaps and closes the file. Temporary files are removed.
func (m *File) Close() error {
	if m.f == nil {
		return nil
	}
	err := m.release()
	if cerr := m.f.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	m.f = nil
	if m.temp {
		if rerr := os.Remove(m.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = errors.Join(err, rerr)
		}
	}
	return err
}

// Compile-time interface check
var _ Backing = (*File)(nil)
