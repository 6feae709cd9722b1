package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrHeaderNotFound indicates the stream is shorter than the fixed header.
	ErrHeaderNotFound = errors.New("format: header region not found")
	// ErrClusterAreaNotFound indicates the stream length disagrees with the cluster area.
	ErrClusterAreaNotFound = errors.New("format: cluster area not found")
	// ErrVersionTooLong indicates the version text does not fit its header slot.
	ErrVersionTooLong = errors.New("format: version text too long")
)
