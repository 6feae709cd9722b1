package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfskit/cfs"
	"github.com/joshuapare/cfskit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	logLevel   string
	logDir     string

	// cfg is the effective configuration after PersistentPreRunE.
	cfg = defaultConfig()

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "cfsctl",
	Short: "Create, inspect and edit cluster store files",
	Long: `cfsctl works with cluster store (.cfs) files: a single file split into
fixed-size clusters holding variable-length records. It can create stores,
add and remove records, list and dump clusters, verify integrity and export
allocation statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Enable logging at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to dated files in this directory")
}

// setup loads the config file and configures logging. Flags win over the
// config file.
func setup(cmd *cobra.Command) error {
	loaded, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-dir") {
		cfg.Log.Dir = logDir
	}

	opts := logger.Options{Enabled: cfg.Log.Level != "", JSON: cfg.Log.JSON, LogDir: cfg.Log.Dir}
	if opts.Enabled {
		if opts.Level, err = logger.ParseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	closeLog, err = logger.Init(opts)
	return err
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// storeOptions wires the CLI logger into the engine.
func storeOptions() *cfs.Options {
	opts := cfs.DefaultOptions()
	opts.Logger = logger.L
	return &opts
}

// openStore opens path with the CLI options.
func openStore(path string) (*cfs.Store, error) {
	printVerbose("Opening store: %s\n", path)
	s, err := cfs.OpenFile(path, storeOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
