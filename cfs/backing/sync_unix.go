//go:build linux || freebsd

package backing

import (
	"golang.org/x/sys/unix"
)

// msyncRange flushes the pages covering [off, off+n) of a mapping.
//
// On Linux and FreeBSD msync() accepts any page-aligned sub-slice.
func msyncRange(data []byte, off, n int64) error {
	page := int64(unix.Getpagesize())
	start := (off / page) * page
	end := min(off+n, int64(len(data)))
	if start >= end {
		return nil
	}
	return unix.Msync(data[start:end], unix.MS_SYNC)
}

// fdatasync performs file descriptor sync. The full flag is ignored here.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
