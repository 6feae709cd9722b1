package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs/metrics"
)

var (
	statsProm      bool
	statsNamespace string
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <store>",
		Short: "Show cluster usage statistics",
		Long: `The stats command reports physical, logical, used and free cluster counts.
With --prom the same numbers are written as gauges in the Prometheus text
exposition format, ready for a node exporter textfile collector. Operation
counters are not exported: they are not stored in the file.

Example:
  cfsctl stats data.cfs
  cfsctl stats data.cfs --prom > /var/lib/node_exporter/cfs.prom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	cmd.Flags().BoolVar(&statsProm, "prom", false, "Write Prometheus text format")
	cmd.Flags().StringVar(&statsNamespace, "namespace", metrics.DefaultNamespace, "Metric namespace for --prom")
	return cmd
}

func runStats(args []string) error {
	s, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if statsProm {
		reg := prometheus.NewRegistry()
		if err := reg.Register(metrics.NewGaugeCollector(s, statsNamespace)); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
		mfs, err := reg.Gather()
		if err != nil {
			return err
		}
		enc := expfmt.NewEncoder(os.Stdout, expfmt.FmtText)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				return err
			}
		}
		return nil
	}

	st := s.Stats()
	if jsonOut {
		return printJSON(map[string]any{
			"physical_clusters": st.PhysicalClusters,
			"logical_clusters":  st.LogicalClusters,
			"used_clusters":     st.UsedClusters,
			"free_clusters":     st.FreeClusters(),
		})
	}

	printInfo("\nCluster Statistics:\n")
	printInfo("  Physical: %d\n", st.PhysicalClusters)
	printInfo("  Logical:  %d\n", st.LogicalClusters)
	printInfo("  Used:     %d\n", st.UsedClusters)
	printInfo("  Free:     %d\n", st.FreeClusters())
	if st.PhysicalClusters > 0 {
		printInfo("  Utilization: %.1f%%\n", 100*float64(st.UsedClusters)/float64(st.PhysicalClusters))
	}
	return nil
}
