package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <store>",
		Short: "Show header fields and cluster counts",
		Long: `The info command opens a store and reports its header (version, creation
time, cluster size) together with physical, logical, used and free cluster
counts.

Example:
  cfsctl info data.cfs
  cfsctl info data.cfs --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	s, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.Info()
	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nStore Information:\n")
	printInfo("  File: %s\n", args[0])
	printInfo("  Size: %s\n", formatBytes(info.Size))
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Created: %s\n", info.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	printInfo("  Cluster size: %d bytes\n", info.ClusterSize)
	printInfo("  Payload per cluster: %d bytes\n", s.Header().PayloadSize())
	printInfo("  Max expand: %d\n", info.ClusterMaxExpand)

	printInfo("\nClusters:\n")
	printInfo("  Physical: %d\n", info.PhysicalClusters)
	printInfo("  Logical: %d\n", info.LogicalClusters)
	printInfo("  Used: %d\n", info.UsedClusters)
	printInfo("  Free: %d\n", info.FreeClusters)
	return nil
}

func formatBytes(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
