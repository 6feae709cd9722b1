// Package metrics exports cluster store counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/cfskit/pkg/types"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "cfs"

// StatsSource provides the counters to export. *cfs.Store satisfies it.
//
// A Store is not thread-safe: when a registry is scraped concurrently with
// store mutations, pass a Snapshot taken under the caller's own lock.
type StatsSource interface {
	Stats() types.Stats
}

// Snapshot is a fixed set of counters.
type Snapshot types.Stats

// Stats implements StatsSource.
func (s Snapshot) Stats() types.Stats { return types.Stats(s) }

type metric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(types.Stats) float64
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	src     StatsSource
	metrics []metric
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector. An empty namespace uses DefaultNamespace.
func NewCollector(src StatsSource, namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	counter := func(name, help string, f func(types.Stats) uint64) metric {
		return metric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil),
			kind:  prometheus.CounterValue,
			value: func(s types.Stats) float64 { return float64(f(s)) },
		}
	}
	gauge := func(name, help string, f func(types.Stats) int64) metric {
		return metric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil),
			kind:  prometheus.GaugeValue,
			value: func(s types.Stats) float64 { return float64(f(s)) },
		}
	}

	return &Collector{
		src: src,
		metrics: []metric{
			counter("allocations_total", "Clusters handed out by allocate, direct or staged.",
				func(s types.Stats) uint64 { return s.Allocations }),
			counter("frees_total", "Chains released by free.",
				func(s types.Stats) uint64 { return s.Frees }),
			counter("expansions_total", "Single-cluster chain growth steps.",
				func(s types.Stats) uint64 { return s.Expansions }),
			counter("grows_total", "Backing sequence length increases.",
				func(s types.Stats) uint64 { return s.Grows }),
			counter("grow_bytes_total", "Bytes added to the backing sequence.",
				func(s types.Stats) uint64 { return s.GrowBytes }),
			counter("commits_total", "Non-empty transaction commits.",
				func(s types.Stats) uint64 { return s.Commits }),
			counter("committed_clusters_total", "Physical clusters copied by commits.",
				func(s types.Stats) uint64 { return s.CommittedClusters }),
			gauge("physical_clusters", "Current global cluster counter.",
				func(s types.Stats) int64 { return s.PhysicalClusters }),
			gauge("logical_clusters", "Current surface table length.",
				func(s types.Stats) int64 { return s.LogicalClusters }),
			gauge("used_clusters", "Physical clusters owned by chains.",
				func(s types.Stats) int64 { return s.UsedClusters }),
			gauge("free_clusters", "Physical clusters not owned by a chain.",
				func(s types.Stats) int64 { return s.FreeClusters() }),
		},
	}
}

// NewGaugeCollector builds a collector that exports only the cluster count
// gauges. The cumulative counters live in process memory, so a store opened
// for a one-shot export would always report them as zero.
func NewGaugeCollector(src StatsSource, namespace string) *Collector {
	c := NewCollector(src, namespace)
	gauges := c.metrics[:0]
	for _, m := range c.metrics {
		if m.kind == prometheus.GaugeValue {
			gauges = append(gauges, m)
		}
	}
	c.metrics = gauges
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(st))
	}
}
