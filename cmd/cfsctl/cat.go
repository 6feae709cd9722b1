package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs/record"
	"github.com/joshuapare/cfskit/pkg/types"
)

var (
	catIndexing string
	catAs       string
)

func init() {
	rootCmd.AddCommand(newCatCmd())
}

func newCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <store> <index>",
		Short: "Print the contents of one cluster chain",
		Long: `The cat command decodes the record at an index and writes it to stdout.

Formats:
  string - length-prefixed UTF-8 text (as written by add)
  blob   - length-prefixed bytes (as written by add --file)
  raw    - the whole payload, including unused tail bytes

Example:
  cfsctl cat data.cfs 0
  cfsctl cat data.cfs 3 --as blob > photo.jpg
  cfsctl cat data.cfs 12 --indexing physical --as raw`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(args)
		},
	}
	cmd.Flags().StringVar(&catIndexing, "indexing", "logical", "Index interpretation: logical or physical")
	cmd.Flags().StringVar(&catAs, "as", "string", "Output format: string, blob or raw")
	return cmd
}

func runCat(args []string) error {
	mode, err := types.ParseIndexing(catIndexing)
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[1], err)
	}

	s, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.Peek(idx, mode)
	if err != nil {
		return err
	}
	if h.Free() {
		return fmt.Errorf("cluster %d is free", idx)
	}
	printVerbose("Reading %s\n", h)

	switch catAs {
	case "raw":
		_, err = os.Stdout.Write(h.Payload())
		return err
	case "blob":
		ser := record.Blobs{}
		if !ser.CanDeserialize(h) {
			return fmt.Errorf("cluster %d does not hold a blob", idx)
		}
		if _, err := h.Seek(0, io.SeekStart); err != nil {
			return err
		}
		b, err := ser.Deserialize(h)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	case "string":
		ser := record.Strings{}
		if !ser.CanDeserialize(h) {
			return fmt.Errorf("cluster %d does not hold a string", idx)
		}
		if _, err := h.Seek(0, io.SeekStart); err != nil {
			return err
		}
		v, err := ser.Deserialize(h)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(map[string]any{"index": idx, "value": v})
		}
		printInfo("%s\n", v)
		return nil
	default:
		return fmt.Errorf("unknown format: %s (must be string, blob, or raw)", catAs)
	}
}
