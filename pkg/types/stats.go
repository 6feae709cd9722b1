package types

import "time"

// Stats are the cumulative counters of a store since it was opened.
type Stats struct {
	Allocations       uint64 // clusters handed out by Allocate (direct or staged)
	Frees             uint64 // chains released by Free
	Expansions        uint64 // single-cluster chain growth steps
	Grows             uint64 // backing sequence length increases
	GrowBytes         uint64 // bytes added by Grows
	Commits           uint64 // non-empty transaction commits
	CommittedClusters uint64 // physical clusters copied by commits

	PhysicalClusters int64 // current global cluster counter
	LogicalClusters  int64 // current surface table length
	UsedClusters     int64 // physical clusters owned by chains
}

// FreeClusters returns the number of physical clusters not owned by a chain.
func (s Stats) FreeClusters() int64 {
	return s.PhysicalClusters - s.UsedClusters
}

// Info describes a store for display.
type Info struct {
	Path             string    `json:"path,omitempty"`
	Version          string    `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	ClusterSize      int32     `json:"cluster_size"`
	ClusterMaxExpand int32     `json:"cluster_max_expand"`
	PhysicalClusters int64     `json:"physical_clusters"`
	LogicalClusters  int64     `json:"logical_clusters"`
	UsedClusters     int64     `json:"used_clusters"`
	FreeClusters     int64     `json:"free_clusters"`
	Size             int64     `json:"size"`
}
