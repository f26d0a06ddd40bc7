package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"chronos/internal/locale"
	"chronos/internal/timeline"
)

// ImportConfig controls how ICS feeds are turned into timeline text.
type ImportConfig struct {
	// HorizonDays is how many days after now recurring events are expanded.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
	// BackfillDays is how many days before now are included.
	BackfillDays int `yaml:"backfill_days" json:"backfill_days"`
	// MaxOccurrences caps the expansion of a single recurring event.
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences"`
	// CacheDir holds the ETag/Last-Modified cache for fetched feeds.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Locale is the default locale code for parsing and formatting.
	Locale string `yaml:"locale" json:"locale"`

	// RoundRanges and UseUTC are passed through to renderers unchanged.
	RoundRanges bool `yaml:"round_ranges" json:"round_ranges"`
	UseUTC      bool `yaml:"use_utc" json:"use_utc"`

	// KnownLocales overrides the built-in known-locale list when non-empty.
	KnownLocales []string `yaml:"known_locales,omitempty" json:"known_locales,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Listen is the HTTP listen address for `chronos serve`.
	Listen string `yaml:"listen" json:"listen"`

	// CacheTTLSeconds bounds how long a parsed block is served from memory.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`

	// CachePurge is a cron-style schedule (e.g. "*/10 * * * *") on which the
	// server drops its whole parse cache.
	CachePurge string `yaml:"cache_purge" json:"cache_purge"`

	Import ImportConfig `yaml:"import" json:"import"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Locale:          "en",
		RoundRanges:     false,
		UseUTC:          true,
		LogLevel:        "info",
		Listen:          "127.0.0.1:8080",
		CacheTTLSeconds: 300,
		CachePurge:      "*/15 * * * *",
		Import: ImportConfig{
			HorizonDays:    365,
			BackfillDays:   30,
			MaxOccurrences: 500,
			CacheDir:       "./cache/ics",
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = def.CacheTTLSeconds
	}
	if c.CachePurge == "" {
		c.CachePurge = def.CachePurge
	}
	if c.Import.HorizonDays <= 0 {
		c.Import.HorizonDays = def.Import.HorizonDays
	}
	if c.Import.BackfillDays < 0 {
		c.Import.BackfillDays = 0
	}
	if c.Import.MaxOccurrences <= 0 {
		c.Import.MaxOccurrences = def.Import.MaxOccurrences
	}
	if c.Import.CacheDir == "" {
		c.Import.CacheDir = def.Import.CacheDir
	}
}

// Validate checks values that cannot be defaulted: the locale must be
// known and the purge schedule must be a valid cron spec.
func (c *Config) Validate() error {
	if _, ok := c.Locales().Canonical(c.Locale); !ok {
		return fmt.Errorf("config: unknown locale %q", c.Locale)
	}
	if _, err := cron.ParseStandard(c.CachePurge); err != nil {
		return fmt.Errorf("config: invalid cache_purge %q: %w", c.CachePurge, err)
	}
	return nil
}

// Locales returns the locale table, honoring KnownLocales.
func (c *Config) Locales() *locale.Table {
	return locale.Default().WithKnown(c.KnownLocales)
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ParseOptions builds validated parse options from the config. locale
// overrides the configured locale when non-empty.
func (c *Config) ParseOptions(code string) (timeline.Options, error) {
	opts := timeline.Options{
		Locale:      c.Locale,
		RoundRanges: c.RoundRanges,
		UseUTC:      c.UseUTC,
		Locales:     c.Locales(),
	}
	if code != "" {
		opts.Locale = code
	}
	if err := opts.Validate(); err != nil {
		return timeline.Options{}, err
	}
	return opts, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Start from defaults so booleans absent from the file keep their
	// default values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".chronos-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
