//go:build darwin

package backing

import (
	"golang.org/x/sys/unix"
)

// msyncRange flushes the whole mapping.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so sub-slices are rejected. The kernel only writes pages that are dirty.
func msyncRange(data []byte, _, _ int64) error {
	return unix.Msync(data, unix.MS_SYNC)
}

// fdatasync uses F_FULLFSYNC when full is set, plain fsync otherwise.
func fdatasync(fd int, full bool) error {
	if full {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(fd)
}
