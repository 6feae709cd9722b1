package verify

import (
	"fmt"
	"unicode/utf8"

	"github.com/joshuapare/cfskit/internal/buf"
	"github.com/joshuapare/cfskit/internal/format"
)

// ValidationError describes a single failed check.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all store invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Header(data); err != nil {
		return err
	}
	if err := FileSize(data); err != nil {
		return err
	}
	if err := SpanChain(data); err != nil {
		return err
	}
	return nil
}

// Header validates the fixed header region.
func Header(data []byte) error {
	if len(data) < format.HeaderSize {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("file too small: %d bytes (need %d)", len(data), format.HeaderSize),
			Offset:  -1,
		}
	}

	n, w, ok := buf.Uvarint7(data[:format.VersionSize], format.VersionOffset)
	if !ok || n > uint64(format.VersionSize-w) {
		return &ValidationError{
			Type:    "Header",
			Message: "version length prefix overruns its slot",
			Offset:  format.VersionOffset,
		}
	}
	if v := data[format.VersionOffset+w : format.VersionOffset+w+int(n)]; !utf8.Valid(v) {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("version is not valid UTF-8: % x", v),
			Offset:  format.VersionOffset + w,
		}
	}

	size := format.ReadI32(data, format.ClusterSizeOffset)
	if size < format.MinClusterSize {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("cluster size %d below minimum %d", size, format.MinClusterSize),
			Offset:  format.ClusterSizeOffset,
		}
	}

	return nil
}

// FileSize validates that the stream is exactly header + counter + area.
func FileSize(data []byte) error {
	if len(data) < format.ClusterAreaOffset {
		return &ValidationError{
			Type:    "FileSize",
			Message: fmt.Sprintf("file too small for cluster counter: %d bytes", len(data)),
			Offset:  -1,
		}
	}

	count := format.ClusterCount(data)
	if count < 0 {
		return &ValidationError{
			Type:    "FileSize",
			Message: fmt.Sprintf("negative cluster count %d", count),
			Offset:  format.ClusterCountOffset,
		}
	}

	size := format.ReadI32(data, format.ClusterSizeOffset)
	want := format.StructureLength(count, size)
	if int64(len(data)) != want {
		return &ValidationError{
			Type:    "FileSize",
			Message: fmt.Sprintf("file is %d bytes, %d clusters of %d need %d", len(data), count, size, want),
			Offset:  -1,
		}
	}

	return nil
}

// SpanChain walks the cluster area by span stride and validates that every
// chain stays inside the area and that the strides add up to the counter.
//
// Call Header and FileSize first; SpanChain trusts the size fields.
func SpanChain(data []byte) error {
	size := format.ReadI32(data, format.ClusterSizeOffset)
	count := format.ClusterCount(data)

	for i := int64(0); i < count; {
		off := format.ClusterOffset(i, size)
		span := int64(format.ReadI32(data, int(off)))
		if span < 0 {
			return &ValidationError{
				Type:    "SpanChain",
				Message: fmt.Sprintf("cluster %d has negative span %d", i, span),
				Offset:  int(off),
			}
		}
		if span == 0 {
			span = 1
		}
		if i+span > count {
			return &ValidationError{
				Type:    "SpanChain",
				Message: fmt.Sprintf("chain at cluster %d spans %d clusters, only %d remain", i, span, count-i),
				Offset:  int(off),
			}
		}
		i += span
	}

	return nil
}

// CountClusters re-derives the physical cluster count from span fields:
// a free cluster counts as one, a chain head counts as its span and the
// walk skips the chain's tail. A healthy image yields the stored counter.
//
// Negative spans are counted as one cluster. The walk stops at the end of
// data, so a truncated image yields a short count.
func CountClusters(data []byte) int64 {
	if len(data) < format.ClusterAreaOffset {
		return 0
	}
	size := format.ReadI32(data, format.ClusterSizeOffset)
	if size < format.MinClusterSize {
		return 0
	}
	count := format.ClusterCount(data)

	var total int64
	for i := int64(0); i < count; {
		off := format.ClusterOffset(i, size)
		if !buf.Has(data, int(off), format.SpanSize) {
			break
		}
		span := int64(format.ReadI32(data, int(off)))
		if span <= 0 {
			span = 1
		}
		total += span
		i += span
	}
	return total
}
