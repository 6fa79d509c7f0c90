package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jfmyers9/bpmlookup/internal/cache"
	"github.com/jfmyers9/bpmlookup/internal/config"
	"github.com/jfmyers9/bpmlookup/internal/resolver"
	"github.com/jfmyers9/bpmlookup/internal/source"
	"github.com/jfmyers9/bpmlookup/pkg/tunebat"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// validateLookupArgs rejects anything but exactly an artist and a track,
// before any config is read or request is made
func validateLookupArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Usage: %s <artist> <track> [--debug|-d]", cmd.Root().Name())
	}
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	artist, track := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dumpDirFlag != "" {
		cfg.DumpDir = dumpDirFlag
	}

	logger := setupLogger(cfg.LogLevel, debugFlag)

	store := openCache(cfg.CacheDB, logger)
	defer func() { _ = store.Close() }()

	r, err := newResolver(cfg, store, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to configure sources")
		return notFoundError(artist, track)
	}

	res := r.Resolve(cmd.Context(), artist, track)
	if !res.Found() {
		return notFoundError(artist, track)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), res.BPM)
	return err
}

func notFoundError(artist, track string) error {
	return fmt.Errorf("Could not find BPM for '%s - %s'", artist, track)
}

// loadConfig reads the config and applies flags shared by all commands
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPathFlag != "" {
		cfg.CacheDB = dbPathFlag
	}
	return cfg, nil
}

// closableCache is a resolver cache that owns resources
type closableCache interface {
	resolver.Cache
	Close() error
}

// openCache opens the cache database. When that fails the lookup goes on
// without a cache.
func openCache(path string, logger zerolog.Logger) closableCache {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to create cache directory")
		return nopCache{}
	}

	store, err := cache.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to open cache, continuing without it")
		return nopCache{}
	}

	logger.Debug().Str("path", path).Msg("Using cache database")
	return store
}

// newResolver wires the sources in priority order: the Tunebat API (which
// falls back to scraping tunebat.com), then songbpm.com
func newResolver(cfg *config.Config, c resolver.Cache, logger zerolog.Logger) (*resolver.Resolver, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	fetcher := source.NewFetcher(source.FetcherConfig{
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		DumpDir:    cfg.DumpDir,
	}, logger)

	apiClient, err := tunebat.NewClient(tunebat.Config{
		BaseURL:    cfg.Tunebat.APIURL,
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		Logger:     source.TunebatLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tunebat client: %w", err)
	}

	tunebatWeb := source.NewScraper(source.TunebatWeb.WithBaseURL(cfg.Tunebat.BaseURL), fetcher, logger)
	songBPM := source.NewScraper(source.SongBPM.WithBaseURL(cfg.SongBPM.BaseURL), fetcher, logger)

	return resolver.New(c, logger,
		resolver.Step{Outcome: resolver.OutcomeAPI, Source: source.NewTunebatAPI(apiClient, tunebatWeb, logger)},
		resolver.Step{Outcome: resolver.OutcomeScrape, Source: songBPM},
	), nil
}

var errNoCache = errors.New("cache unavailable")

// nopCache stands in when the cache database cannot be opened
type nopCache struct{}

func (nopCache) EnsureInitialized(context.Context) error { return errNoCache }

func (nopCache) Lookup(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

func (nopCache) Upsert(context.Context, string, string, string, string) error { return errNoCache }

func (nopCache) Close() error { return nil }
