/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	debugFlag   bool
	dbPathFlag  string
	dumpDirFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bpmlookup <artist> <track>",
	Short: "Look up the tempo (BPM) of a track",
	Long: `bpmlookup looks up the tempo of a track in beats per minute.

It checks a local cache first, then the Tunebat search API (falling back
to scraping tunebat.com), and finally scrapes songbpm.com. Any tempo found
online is saved to the cache.

Exit codes:
  0 - BPM found, written to stdout without a trailing newline
  1 - BPM not found, or missing arguments`,
	Args:          validateLookupArgs,
	RunE:          runLookup,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Cache database path (overrides config)")
	rootCmd.Flags().StringVar(&dumpDirFlag, "dump-dir", "", "Save fetched pages to this directory (overrides config)")
}
