package tunebat

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Config holds client configuration.
type Config struct {
	BaseURL    string       // Optional: API base URL (defaults to DefaultBaseURL, used for testing)
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	UserAgent  string       // Optional: User-Agent header (defaults to DefaultUserAgent)
	Referer    string       // Optional: Referer header (defaults to DefaultReferer)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the entry point for Tunebat API operations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	referer    string
	logger     Logger
}

const (
	// DefaultBaseURL is the default Tunebat API endpoint.
	DefaultBaseURL = "https://api.tunebat.com"

	// DefaultReferer is sent with every request unless overridden.
	DefaultReferer = "https://tunebat.com/"

	// DefaultUserAgent mimics a desktop browser; the API rejects obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	searchPath = "/api/tracks/search"
)

// NewClient creates a new Tunebat API client.
//
// Returns an error if BaseURL is set but is not an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("tunebat: invalid BaseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: BaseURL must be an absolute http(s) URL, got %q", ErrInvalidConfig, baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	referer := cfg.Referer
	if referer == "" {
		referer = DefaultReferer
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
		referer:    referer,
		logger:     cfg.Logger,
	}, nil
}

// SearchURL returns the request URL used for a search term. Spaces are
// percent-encoded rather than sent as '+'.
func (c *Client) SearchURL(term string) string {
	return c.baseURL + searchPath + "?term=" + strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
