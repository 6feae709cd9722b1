package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs"
)

var (
	createFormatVersion string
	createClusterSize   int32
	createMaxExpand     int32
	createCapacity      int64
	createForce         bool
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <store>",
		Short: "Create an empty store",
		Long: `The create command writes a new store file with a header, a zero cluster
counter and an initial run of free clusters. Unset flags fall back to the
[create] section of the config file, then to built-in defaults.

Example:
  cfsctl create data.cfs
  cfsctl create data.cfs --cluster-size 64 --capacity 100
  cfsctl create data.cfs --force --format-version 2.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&createFormatVersion, "format-version", "", "Version text stored in the header (max 15 bytes)")
	cmd.Flags().Int32Var(&createClusterSize, "cluster-size", 0, "Physical cluster size in bytes, including the 4-byte span")
	cmd.Flags().Int32Var(&createMaxExpand, "max-expand", 0, "Advisory maximum chain length recorded in the header")
	cmd.Flags().Int64Var(&createCapacity, "capacity", -1, "Number of free clusters to create up front")
	cmd.Flags().BoolVarP(&createForce, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func runCreate(ctx context.Context, args []string) error {
	path := args[0]

	if !createForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cc := cfg.createConfig()
	if createFormatVersion != "" {
		cc.Version = createFormatVersion
	}
	if createClusterSize != 0 {
		cc.ClusterSize = createClusterSize
	}
	if createMaxExpand != 0 {
		cc.ClusterMaxExpand = createMaxExpand
	}
	if createCapacity >= 0 {
		cc.Capacity = createCapacity
	}

	printVerbose("Creating store: %s (cluster size %d, capacity %d)\n", path, cc.ClusterSize, cc.Capacity)

	s, err := cfs.CreateFile(path, cc, storeOptions())
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	if err := s.Flush(ctx); err != nil {
		return errors.Join(err, s.Close())
	}
	info := s.Info()
	if err := s.Close(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(info)
	}
	printInfo("Created %s: %d clusters of %d bytes\n", path, info.PhysicalClusters, info.ClusterSize)
	return nil
}
