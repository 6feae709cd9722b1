package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs"
	"github.com/joshuapare/cfskit/pkg/types"
)

var (
	lsIndexing string
	lsAll      bool
)

func init() {
	rootCmd.AddCommand(newLsCmd())
}

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <store>",
		Short: "List clusters",
		Long: `The ls command lists occupied clusters in logical order, one line per
slot. Use --all to include free slots and --indexing physical to number rows
by physical cluster instead of slot.

Example:
  cfsctl ls data.cfs
  cfsctl ls data.cfs --all --indexing physical
  cfsctl ls data.cfs --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(args)
		},
	}
	cmd.Flags().StringVar(&lsIndexing, "indexing", "logical", "Row numbering: logical or physical")
	cmd.Flags().BoolVarP(&lsAll, "all", "a", false, "Include free clusters")
	return cmd
}

type clusterRow struct {
	Index    int   `json:"index"`
	Cluster  int64 `json:"cluster"`
	Position int64 `json:"position"`
	Used     int   `json:"used"`
	Size     int64 `json:"size"`
	Free     bool  `json:"free"`
}

func runLs(args []string) error {
	mode, err := types.ParseIndexing(lsIndexing)
	if err != nil {
		return err
	}

	s, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := listClusters(s, mode, lsAll)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rows)
	}

	printInfo("%-8s %-8s %-10s %-6s %s\n", "INDEX", "CLUSTER", "POSITION", "USED", "SIZE")
	for _, r := range rows {
		used := fmt.Sprint(r.Used)
		if r.Free {
			used = "free"
		}
		printInfo("%-8d %-8d 0x%-8X %-6s %d\n", r.Index, r.Cluster, r.Position, used, r.Size)
	}
	printVerbose("\n%d entries\n", len(rows))
	return nil
}

func listClusters(s *cfs.Store, mode cfs.Indexing, includeFree bool) ([]clusterRow, error) {
	rows := []clusterRow{}
	it := s.Clusters(mode, includeFree)
	for {
		h, err := it.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		idx := h.Index()
		if mode == cfs.Physical {
			idx = int(h.Cluster())
		}
		rows = append(rows, clusterRow{
			Index:    idx,
			Cluster:  h.Cluster(),
			Position: h.Position(),
			Used:     h.Used(),
			Size:     h.Size(),
			Free:     h.Free(),
		})
	}
}
