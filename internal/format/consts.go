// Package format houses the byte layout of a cluster store: the fixed header,
// the global cluster counter and the physical cluster area. The goal is to
// keep offset arithmetic and field decoding in one place so the engine only
// deals with typed values.
package format

// Store layout (all offsets absolute, little-endian integers):
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	  0x00   16   version (7-bit varint length + UTF-8 bytes)
//	  0x10    8   createdAt (100ns ticks since 0001-01-01 UTC)
//	  0x18    4   clusterSize (span field + payload, bytes)
//	  0x1C    4   clusterMaxExpand (advisory, never enforced)
//	  0x20    8   global cluster counter
//	  0x28    …   cluster area: count × clusterSize
const (
	// HeaderOffset is where the fixed header starts.
	HeaderOffset = 0

	// VersionOffset/VersionSize bound the length-prefixed version text.
	VersionOffset = HeaderOffset
	VersionSize   = 16

	// MaxVersionLen is the longest encodable version (one prefix byte).
	MaxVersionLen = VersionSize - 1

	DateOffset = VersionOffset + VersionSize
	DateSize   = 8

	ClusterSizeOffset = DateOffset + DateSize
	ClusterSizeSize   = 4

	ClusterMaxExpandOffset = ClusterSizeOffset + ClusterSizeSize
	ClusterMaxExpandSize   = 4

	// HeaderSize is the size of the fixed header region.
	HeaderSize = ClusterMaxExpandOffset + ClusterMaxExpandSize

	// ClusterCountOffset holds the number of materialized physical clusters.
	ClusterCountOffset = HeaderSize
	ClusterCountSize   = 8

	// ClusterAreaOffset is the absolute offset of physical cluster 0.
	ClusterAreaOffset = ClusterCountOffset + ClusterCountSize

	// SpanSize is the per-cluster overhead: the int32 chain length that
	// precedes every physical cluster's payload.
	SpanSize = 4

	// MinClusterSize is the smallest cluster that still carries one payload byte.
	MinClusterSize = SpanSize + 1
)

// Defaults used by file creation helpers.
const (
	DefaultClusterSize      = 256
	DefaultClusterMaxExpand = 8
	DefaultCapacity         = 16
)
