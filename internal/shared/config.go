package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Feed     FeedConfig     `toml:"feed"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// BackendConfig locates the catalog REST API.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
}

// FeedConfig controls the change feed subscription.
type FeedConfig struct {
	SubscribePath  string `toml:"subscribe_path"`
	ReconnectDelay string `toml:"reconnect_delay"`
	ReconnectBurst int    `toml:"reconnect_burst"`
}

// CatalogConfig holds the initial view state of the catalog list.
type CatalogConfig struct {
	PageSize      int    `toml:"page_size"`
	SortField     string `toml:"sort_field"`
	SortDirection string `toml:"sort_direction"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// MetricsConfig is the listen address for the prometheus endpoint. Empty disables it.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// LoadEnvFile exports the variables of a dotenv file (default ".env") so MOVIEX_* flag sources see them.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values that cannot be corrected later on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if _, err := parseDuration(c.Backend.Timeout); err != nil {
		return fmt.Errorf("%w: backend.timeout: %v", ErrInvalidConfig, err)
	}
	if _, err := parseDuration(c.Feed.ReconnectDelay); err != nil {
		return fmt.Errorf("%w: feed.reconnect_delay: %v", ErrInvalidConfig, err)
	}
	if c.Catalog.PageSize < 0 {
		return fmt.Errorf("%w: catalog.page_size must not be negative", ErrInvalidConfig)
	}
	switch c.Catalog.SortDirection {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: catalog.sort_direction must be asc or desc", ErrInvalidConfig)
	}
	return nil
}

// RequestTimeout is the per-request timeout of the REST client. Zero means none.
func (b BackendConfig) RequestTimeout() time.Duration {
	d, _ := parseDuration(b.Timeout)
	return d
}

// Delay is the minimum spacing between reconnect attempts.
func (f FeedConfig) Delay() time.Duration {
	d, _ := parseDuration(f.ReconnectDelay)
	if d <= 0 {
		return time.Second
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
