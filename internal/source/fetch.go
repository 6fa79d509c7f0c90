package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultUserAgent is a desktop browser User-Agent. Both sites are quick
// to block obvious clients, so every request looks like a browser
// navigation.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxPageSize bounds how much of a page is read.
const maxPageSize = 8 << 20

// FetcherConfig configures a Fetcher
type FetcherConfig struct {
	HTTPClient *http.Client // Defaults to a client with a 30 second timeout
	UserAgent  string       // Defaults to DefaultUserAgent
	DumpDir    string       // When set, successful pages are written here for inspection
}

// Fetcher performs browser-like GET requests
type Fetcher struct {
	client    *http.Client
	userAgent string
	dumpDir   string
	logger    zerolog.Logger
}

// Page is a fetched response
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewFetcher creates a Fetcher
func NewFetcher(cfg FetcherConfig, logger zerolog.Logger) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		dumpDir:   cfg.DumpDir,
		logger:    logger,
	}
}

// Get fetches target. Any HTTP status is returned as a Page; an error
// means the request itself failed.
func (f *Fetcher) Get(ctx context.Context, target, referer string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Page{
		URL:         target,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// dump writes body to <DumpDir>/<name>_response.html when a dump
// directory is configured. Failures are logged and otherwise ignored.
func (f *Fetcher) dump(name string, body []byte) {
	if f.dumpDir == "" {
		return
	}

	if err := os.MkdirAll(f.dumpDir, 0755); err != nil {
		f.logger.Warn().Err(err).Str("dir", f.dumpDir).Msg("Failed to create dump directory")
		return
	}

	path := filepath.Join(f.dumpDir, name+"_response.html")
	if err := os.WriteFile(path, body, 0644); err != nil {
		f.logger.Warn().Err(err).Str("path", path).Msg("Failed to dump response")
		return
	}

	f.logger.Debug().Str("path", path).Msg("Saved response")
}
