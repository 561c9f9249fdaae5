package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Inspection
	YtdlpPath             string // empty means yt-dlp from PATH
	InspectTimeoutSeconds int    // Seconds before an inspection is abandoned (default: 60)
	MinVideoHeight        int    // Video formats below this height are dropped (default: 720)

	// Caches
	CatalogCacheTTLMinutes  int // Minutes a stored catalog stays fresh (default: 30)
	SearchSessionTTLMinutes int // Minutes a search result can be queued from (default: 15)

	// Paths
	ConfigDir   string
	CatalogFile string // $CONFIG_DIR/catalogs.db

	// Logging
	LogLevel  string
	LogFormat string // text or json
}

// InspectTimeout returns the inspection deadline as a duration
func (c *Config) InspectTimeout() time.Duration {
	return time.Duration(c.InspectTimeoutSeconds) * time.Second
}

// CatalogCacheTTL returns how long a stored catalog is served from cache
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLMinutes) * time.Minute
}

// SearchSessionTTL returns how long a search session is kept
func (c *Config) SearchSessionTTL() time.Duration {
	return time.Duration(c.SearchSessionTTLMinutes) * time.Minute
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("YTDLP_PATH", "")
	v.SetDefault("INSPECT_TIMEOUT_SECONDS", 60)
	v.SetDefault("MIN_VIDEO_HEIGHT", 720)
	v.SetDefault("CATALOG_CACHE_TTL_MINUTES", 30)
	v.SetDefault("SEARCH_SESSION_TTL_MINUTES", 15)
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds a Config from v. Command-line flags bound to v take
// precedence over the environment and the .env file.
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Setup viper FIRST to load .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	SetDefaults(v)

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "vidarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		ServerPort: v.GetString("SERVER_PORT"),

		YtdlpPath:             v.GetString("YTDLP_PATH"),
		InspectTimeoutSeconds: v.GetInt("INSPECT_TIMEOUT_SECONDS"),
		MinVideoHeight:        v.GetInt("MIN_VIDEO_HEIGHT"),

		CatalogCacheTTLMinutes:  v.GetInt("CATALOG_CACHE_TTL_MINUTES"),
		SearchSessionTTLMinutes: v.GetInt("SEARCH_SESSION_TTL_MINUTES"),

		ConfigDir:   configDir,
		CatalogFile: filepath.Join(configDir, "catalogs.db"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if c.InspectTimeoutSeconds <= 0 {
		return fmt.Errorf("INSPECT_TIMEOUT_SECONDS must be positive, got %d", c.InspectTimeoutSeconds)
	}
	if c.MinVideoHeight < 0 {
		return fmt.Errorf("MIN_VIDEO_HEIGHT must not be negative, got %d", c.MinVideoHeight)
	}
	if c.CatalogCacheTTLMinutes < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL_MINUTES must not be negative, got %d", c.CatalogCacheTTLMinutes)
	}
	if c.SearchSessionTTLMinutes <= 0 {
		return fmt.Errorf("SEARCH_SESSION_TTL_MINUTES must be positive, got %d", c.SearchSessionTTLMinutes)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
