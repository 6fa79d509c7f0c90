package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Path of the SQLite cache of known tempos
	// Default: ~/.local/share/bpmlookup/known_bpms.sqlite
	CacheDB string

	// Log level (debug, info, warn, error)
	LogLevel string

	// Timeout applied to every outbound HTTP request
	HTTPTimeout time.Duration

	// User-Agent sent to the API and scraped sites
	UserAgent string

	// Directory where fetched pages are saved for inspection (disabled when empty)
	DumpDir string

	Tunebat TunebatConfig
	SongBPM SongBPMConfig
}

// TunebatConfig holds Tunebat endpoints
type TunebatConfig struct {
	APIURL  string
	BaseURL string
}

// SongBPMConfig holds songbpm.com endpoints
type SongBPMConfig struct {
	BaseURL string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(getConfigDir())
	v.AddConfigPath(".")

	v.SetDefault("cache_db", filepath.Join(getDataDir(), "known_bpms.sqlite"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("user_agent", "")
	v.SetDefault("dump_dir", "")
	v.SetDefault("tunebat.api_url", "")
	v.SetDefault("tunebat.base_url", "")
	v.SetDefault("songbpm.base_url", "")

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// BPMLOOKUP_TUNEBAT_API_URL maps to tunebat.api_url
	v.SetEnvPrefix("BPMLOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		CacheDB:     v.GetString("cache_db"),
		LogLevel:    v.GetString("log_level"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		UserAgent:   v.GetString("user_agent"),
		DumpDir:     v.GetString("dump_dir"),
		Tunebat: TunebatConfig{
			APIURL:  v.GetString("tunebat.api_url"),
			BaseURL: v.GetString("tunebat.base_url"),
		},
		SongBPM: SongBPMConfig{
			BaseURL: v.GetString("songbpm.base_url"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "bpmlookup")
}

// getDataDir returns the directory holding the cache database
func getDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "bpmlookup")
}
