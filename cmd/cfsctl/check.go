package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs/verify"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <store>",
		Short: "Verify store structure and cluster counter",
		Long: `The check command validates the raw file (header fields, file length
against the cluster counter, span chain) and then opens the store and
compares the stored counter with the clusters actually present.

Example:
  cfsctl check data.cfs
  cfsctl check data.cfs --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

type checkResult struct {
	File      string `json:"file"`
	Valid     bool   `json:"valid"`
	Structure string `json:"structure,omitempty"`
	Integrity string `json:"integrity,omitempty"`
	Clusters  int64  `json:"clusters"`
}

func runCheck(args []string) error {
	path := args[0]
	printVerbose("Checking store: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	res := checkResult{File: path, Clusters: verify.CountClusters(data)}
	if err := verify.AllInvariants(data); err != nil {
		res.Structure = err.Error()
	} else {
		res.Integrity = integrity(path)
	}
	res.Valid = res.Structure == "" && res.Integrity == ""

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printInfo("\nChecking %s...\n\n", path)
		printStep("Structure", res.Structure)
		if res.Structure == "" {
			printStep("Cluster counter", res.Integrity)
		}
		printInfo("\n  Clusters found: %d\n", res.Clusters)
	}

	if !res.Valid {
		return errors.New("store is corrupt")
	}
	return nil
}

// integrity opens the store and reports a counter mismatch, if any.
func integrity(path string) string {
	s, err := openStore(path)
	if err != nil {
		return err.Error()
	}
	defer s.Close()

	ok, err := s.IntegrityCheck()
	switch {
	case err != nil:
		return err.Error()
	case !ok:
		return fmt.Sprintf("counter %d does not match clusters on disk", s.Count())
	}
	return ""
}

func printStep(name, failure string) {
	if failure == "" {
		printInfo("  ✓ %s\n", name)
		return
	}
	printInfo("  ✗ %s: %s\n", name, failure)
}
