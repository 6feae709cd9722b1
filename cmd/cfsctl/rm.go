package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs"
	"github.com/joshuapare/cfskit/pkg/types"
)

var rmIndexing string

func init() {
	rootCmd.AddCommand(newRmCmd())
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <store> <index>...",
		Short: "Free cluster chains",
		Long: `The rm command frees the chains at the given indexes. Freed clusters stay
in the file and are reused by later allocations. Indexes refer to the store
as it was before the command ran.

Example:
  cfsctl rm data.cfs 0
  cfsctl rm data.cfs 2 5 7
  cfsctl rm data.cfs 12 --indexing physical`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&rmIndexing, "indexing", "logical", "Index interpretation: logical or physical")
	return cmd
}

func runRm(ctx context.Context, args []string) error {
	mode, err := types.ParseIndexing(rmIndexing)
	if err != nil {
		return err
	}

	idxs := make([]int, 0, len(args)-1)
	for _, a := range args[1:] {
		idx, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", a, err)
		}
		idxs = append(idxs, idx)
	}
	// Freeing a chain splits its slot, shifting the logical indexes after it.
	slices.Sort(idxs)
	idxs = slices.Compact(idxs)
	slices.Reverse(idxs)

	s, err := openStore(args[0])
	if err != nil {
		return err
	}

	freed := 0
	for _, idx := range idxs {
		var h *cfs.Handle
		if h, err = s.Peek(idx, mode); err != nil {
			err = fmt.Errorf("free %d: %w", idx, err)
			break
		}
		if h.Free() {
			printVerbose("Skipping %s index %d: already free\n", mode, idx)
			continue
		}
		printVerbose("Freeing %s index %d\n", mode, idx)
		if err = s.Free(idx, mode); err != nil {
			err = fmt.Errorf("free %d: %w", idx, err)
			break
		}
		freed++
	}
	if err == nil {
		err = s.Flush(ctx)
	}
	if err = errors.Join(err, s.Close()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"file": args[0], "freed": freed})
	}
	printInfo("Freed %d chain(s) in %s\n", freed, args[0])
	return nil
}
