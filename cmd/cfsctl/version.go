package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/internal/format"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cfsctl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  header layout: %d bytes\n", format.HeaderSize)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
