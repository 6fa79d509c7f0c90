package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jfmyers9/bpmlookup/internal/cache"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// SourceManual tags tempos entered by hand
const SourceManual = "manual"

// maxColumnWidth caps artist and track columns in listings
const maxColumnWidth = 32

// cacheCmd groups the cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and edit the local BPM cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached tempos, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheSetCmd = &cobra.Command{
	Use:   "set <artist> <track> <bpm>",
	Short: "Store a tempo by hand",
	Long: `Store a tempo for a track, replacing any cached value.

Matching is case-insensitive, so "Daft Punk" and "daft punk" share an entry.
Manually set values are tagged with the source "manual".`,
	Args: cobra.ExactArgs(3),
	RunE: runCacheSet,
}

var cacheListLimit int

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheSetCmd)

	cacheListCmd.Flags().IntVarP(&cacheListLimit, "limit", "n", 0, "Maximum number of entries to show (0=all)")
}

func openCacheStrict() (*cache.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	store, err := cache.Open(cfg.CacheDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", cfg.CacheDB, err)
	}
	return store, nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	store, err := openCacheStrict()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(ctx, cacheListLimit)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records, time.Now()))
	return nil
}

func runCacheSet(cmd *cobra.Command, args []string) error {
	artist, track, bpm := args[0], args[1], args[2]

	if v, err := strconv.ParseFloat(bpm, 64); err != nil || v <= 0 {
		return fmt.Errorf("invalid BPM %q: must be a positive number", bpm)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	store, err := openCacheStrict()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Upsert(ctx, artist, track, bpm, SourceManual); err != nil {
		return fmt.Errorf("failed to save BPM: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved BPM for '%s - %s': %s\n", artist, track, bpm)
	return nil
}

// renderRecords formats records as a table relative to now
func renderRecords(records []cache.Record, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Artist", "Track", "BPM", "Source", "Observed"})

	for _, r := range records {
		observed := "unknown"
		if r.ObservedAt.Unix() > 0 {
			observed = humanize.RelTime(r.ObservedAt, now, "ago", "from now")
		}
		tw.AppendRow(table.Row{
			truncate(r.Artist, maxColumnWidth),
			truncate(r.Track, maxColumnWidth),
			r.BPM,
			r.Source,
			observed,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

// truncate shortens text to width display columns, ending in "..."
// when cut. Width is measured in columns so wide runes count double.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
