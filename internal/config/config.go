package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/search"
	"github.com/pelletier/go-toml/v2"
)

// Config is the persistent application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	UI      UIConfig      `toml:"ui"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig holds the card search API settings
type APIConfig struct {
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`       // per search, e.g. "15s"
	RateInterval string `toml:"rate_interval"` // minimum gap between requests
	MaxRetries   int    `toml:"max_retries"`   // 0 uses the client default, negative disables
}

// UIConfig holds UI preferences
type UIConfig struct {
	DefaultSort string `toml:"default_sort"` // name, set, cost or power
	AltScreen   bool   `toml:"alt_screen"`
}

// CatalogConfig holds the offline card catalog settings
type CatalogConfig struct {
	Path    string `toml:"path"`
	Offline bool   `toml:"offline"` // search the catalog instead of the API
}

// LogConfig holds the event log settings
type LogConfig struct {
	EventsPath string `toml:"events_path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := DataDir()
	return &Config{
		API: APIConfig{
			BaseURL:      search.DefaultBaseURL,
			Timeout:      "15s",
			RateInterval: "100ms",
			MaxRetries:   3,
		},
		UI: UIConfig{
			DefaultSort: string(card.DefaultSortKey),
			AltScreen:   true,
		},
		Catalog: CatalogConfig{
			Path: filepath.Join(dir, "catalog.db"),
		},
		Log: LogConfig{
			EventsPath: filepath.Join(dir, "events.jsonl"),
		},
	}
}

// DataDir returns ~/.cardscope, or .cardscope when there is no home directory.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cardscope"
	}
	return filepath.Join(home, ".cardscope")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load reads config from path (ConfigPath when empty). A missing file yields
// the defaults. Environment overrides are applied either way, and the result
// is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// Fields absent from the file keep their defaults.
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.AutoPopulateFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// AutoPopulateFromEnv applies CARDSCOPE_* environment overrides
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("CARDSCOPE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CARDSCOPE_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("CARDSCOPE_SORT"); v != "" {
		c.UI.DefaultSort = v
	}
	if v := os.Getenv("CARDSCOPE_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Catalog.Offline = b
		}
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" && !c.Catalog.Offline {
		return errors.New("api base_url is empty and catalog.offline is false")
	}
	if _, err := c.SearchTimeout(); err != nil {
		return fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	if _, err := c.RateInterval(); err != nil {
		return fmt.Errorf("invalid api rate_interval %q: %w", c.API.RateInterval, err)
	}
	if _, err := c.SortKey(); err != nil {
		return fmt.Errorf("invalid ui default_sort: %w", err)
	}
	if c.Catalog.Offline && c.Catalog.Path == "" {
		return errors.New("catalog.offline is set but catalog.path is empty")
	}
	return nil
}

// SearchTimeout returns the per-search deadline. Empty means no deadline.
func (c *Config) SearchTimeout() (time.Duration, error) {
	return parseDuration(c.API.Timeout)
}

// RateInterval returns the minimum gap between API requests.
func (c *Config) RateInterval() (time.Duration, error) {
	return parseDuration(c.API.RateInterval)
}

// SortKey returns the default sort key.
func (c *Config) SortKey() (card.SortKey, error) {
	if c.UI.DefaultSort == "" {
		return card.DefaultSortKey, nil
	}
	return card.ParseSortKey(c.UI.DefaultSort)
}

// ClientOptions returns the search client options described by the config.
// The search timeout is not among them; it bounds a whole search, retries
// included, and is applied with search.WithTimeout.
func (c *Config) ClientOptions() search.ClientOptions {
	interval, _ := c.RateInterval()
	return search.ClientOptions{
		BaseURL:      c.API.BaseURL,
		RateInterval: interval,
		MaxRetries:   c.API.MaxRetries,
	}
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}
