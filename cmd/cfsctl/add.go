package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs"
	"github.com/joshuapare/cfskit/cfs/record"
)

var (
	addFiles []string
	addNoTx  bool
)

func init() {
	rootCmd.AddCommand(newAddCmd())
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <store> [text...]",
		Short: "Store text or file contents as new records",
		Long: `The add command stores each text argument as a length-prefixed string
record and each --file as a length-prefixed blob record. By default all
records are staged in one transaction and committed together; --no-tx
allocates and writes them one at a time.

Example:
  cfsctl add data.cfs hello world
  cfsctl add data.cfs --file photo.jpg --file notes.txt
  cfsctl add data.cfs --no-tx "single record"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args)
		},
	}
	cmd.Flags().StringArrayVar(&addFiles, "file", nil, "Store this file's contents as a blob (repeatable)")
	cmd.Flags().BoolVar(&addNoTx, "no-tx", false, "Write records directly instead of through a transaction")
	return cmd
}

func runAdd(ctx context.Context, args []string) error {
	texts := args[1:]
	if len(texts) == 0 && len(addFiles) == 0 {
		return errors.New("nothing to add: pass text arguments or --file")
	}

	blobs := make([][]byte, 0, len(addFiles))
	for _, name := range addFiles {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		blobs = append(blobs, data)
	}

	s, err := openStore(args[0])
	if err != nil {
		return err
	}

	before := s.Len()
	added, err := addRecords(s, texts, blobs)
	if err == nil {
		err = s.Flush(ctx)
	}
	if err = errors.Join(err, s.Close()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"file": args[0], "added": added, "slots_before": before})
	}
	printInfo("Added %d record(s) to %s\n", added, args[0])
	if skipped := len(texts) + len(blobs) - added; skipped > 0 {
		printInfo("  %d value(s) rejected by the serializer\n", skipped)
	}
	return nil
}

func addRecords(s *cfs.Store, texts []string, blobs [][]byte) (int, error) {
	if addNoTx {
		n := 0
		for _, t := range texts {
			ok, err := record.Add(s, t, record.Strings{}, false)
			if err != nil {
				return n, err
			}
			if ok {
				n++
			}
		}
		for _, b := range blobs {
			ok, err := record.Add(s, b, record.Blobs{}, false)
			if err != nil {
				return n, err
			}
			if ok {
				n++
			}
		}
		return n, nil
	}

	txc := cfg.txConfig()
	n, err := record.AddBatch(s, texts, record.Strings{}, txc)
	if err != nil {
		return 0, err
	}
	if len(blobs) == 0 {
		return n, nil
	}
	m, err := record.AddBatch(s, blobs, record.Blobs{}, txc)
	printVerbose("Committed %d string and %d blob record(s)\n", n, m)
	return n + m, err
}
