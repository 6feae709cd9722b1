package format

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/joshuapare/cfskit/internal/buf"
)

// Header is the fixed metadata region at offset 0.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	  0x00   16   version (7-bit varint length + UTF-8 bytes)
//	  0x10    8   createdAt ticks
//	  0x18    4   clusterSize
//	  0x1C    4   clusterMaxExpand
//
// Version and CreatedAt are written once at creation; ClusterSize is fixed
// for the lifetime of the store. ClusterMaxExpand is stored but not enforced.
type Header struct {
	Version          string
	CreatedAt        time.Time
	ClusterSize      int32
	ClusterMaxExpand int32
}

// PayloadSize returns the payload bytes of a single physical cluster.
func (h Header) PayloadSize() int64 {
	return int64(h.ClusterSize) - SpanSize
}

// ParseHeader extracts the header fields from b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	n, w, ok := buf.Uvarint7(b[VersionOffset:VersionOffset+VersionSize], 0)
	if !ok || n > uint64(VersionSize-w) {
		return Header{}, fmt.Errorf("header: version prefix %d: %w", n, ErrTruncated)
	}
	start := VersionOffset + w
	version := string(b[start : start+int(n)])
	return Header{
		Version:          version,
		CreatedAt:        TicksToTime(ReadI64(b, DateOffset)),
		ClusterSize:      ReadI32(b, ClusterSizeOffset),
		ClusterMaxExpand: ReadI32(b, ClusterMaxExpandOffset),
	}, nil
}

// EncodeHeader writes h into the first HeaderSize bytes of b.
func EncodeHeader(b []byte, h Header) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("header: %w", ErrTruncated)
	}
	if len(h.Version) > MaxVersionLen {
		return fmt.Errorf("header: %q is %d bytes (max %d): %w",
			h.Version, len(h.Version), MaxVersionLen, ErrVersionTooLong)
	}
	if !utf8.ValidString(h.Version) {
		return fmt.Errorf("header: version %q is not valid UTF-8", h.Version)
	}
	clear(b[VersionOffset : VersionOffset+VersionSize])
	w, _ := buf.PutUvarint7(b, VersionOffset, uint64(len(h.Version)))
	copy(b[VersionOffset+w:], h.Version)
	PutI64(b, DateOffset, TimeToTicks(h.CreatedAt))
	PutI32(b, ClusterSizeOffset, h.ClusterSize)
	PutI32(b, ClusterMaxExpandOffset, h.ClusterMaxExpand)
	return nil
}

// ClusterCount reads the global physical cluster counter.
func ClusterCount(b []byte) int64 {
	return ReadI64(b, ClusterCountOffset)
}

// PutClusterCount writes the global physical cluster counter.
func PutClusterCount(b []byte, n int64) {
	PutI64(b, ClusterCountOffset, n)
}

// StructureLength is the exact stream length of a store with count clusters.
func StructureLength(count int64, clusterSize int32) int64 {
	return ClusterAreaOffset + count*int64(clusterSize)
}

// ClusterOffset returns the absolute offset of physical cluster i.
func ClusterOffset(i int64, clusterSize int32) int64 {
	return ClusterAreaOffset + i*int64(clusterSize)
}

// CheckStructure validates the stream length against the header and counter.
// It does not look at span fields.
func CheckStructure(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("stream is %d bytes (need %d): %w", len(b), HeaderSize, ErrHeaderNotFound)
	}
	if len(b) < ClusterAreaOffset {
		return fmt.Errorf("stream is %d bytes (need %d): %w", len(b), ClusterAreaOffset, ErrClusterAreaNotFound)
	}
	size := ReadI32(b, ClusterSizeOffset)
	if size < MinClusterSize {
		return fmt.Errorf("cluster size %d below minimum %d: %w", size, MinClusterSize, ErrClusterAreaNotFound)
	}
	count := ClusterCount(b)
	if count < 0 {
		return fmt.Errorf("negative cluster count %d: %w", count, ErrClusterAreaNotFound)
	}
	area, ok := buf.MulOverflowSafe(int(count), int(size))
	if !ok {
		return fmt.Errorf("cluster area overflow (count=%d size=%d): %w", count, size, ErrClusterAreaNotFound)
	}
	if want := ClusterAreaOffset + int64(area); int64(len(b)) != want {
		return fmt.Errorf("stream is %d bytes, cluster area needs %d: %w", len(b), want, ErrClusterAreaNotFound)
	}
	return nil
}
