// Package backing provides the random-access byte sequences a cluster store
// lives in.
//
// A Backing exposes its whole content as one byte slice. The slice is only
// valid until the next Truncate or Close: file-backed sequences are remapped
// when they change length, so callers must re-fetch Bytes after any growth.
//
// Implementations:
//
//   - File: a memory-mapped file (linux, darwin, freebsd) or a fully loaded
//     file with write-back on flush (other platforms).
//   - Memory: a plain slice, used for tests and transaction staging.
//
// Backings are not safe for concurrent use.
package backing

import "errors"

var (
	// ErrClosed indicates an operation on a closed backing.
	ErrClosed = errors.New("backing: closed")

	// ErrNegativeSize indicates a Truncate to a negative length.
	ErrNegativeSize = errors.New("backing: negative size")
)

// Backing is a resizable byte sequence.
type Backing interface {
	// Bytes returns the current content. It is invalidated by Truncate and Close.
	Bytes() []byte

	// Size returns the current length in bytes.
	Size() int64

	// Truncate changes the length to n. Bytes added by growth read as zero.
	Truncate(n int64) error

	// FlushRange makes [off, off+n) durable. It may flush more than asked.
	FlushRange(off, n int64) error

	// Sync flushes file metadata. When full is set, platforms that offer a
	// stronger barrier (F_FULLFSYNC) use it.
	Sync(full bool) error

	// Close releases the sequence. Temporary backings are removed.
	Close() error
}
