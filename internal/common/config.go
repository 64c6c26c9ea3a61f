package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Backend     BackendConfig     `toml:"backend"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	Geo         GeoConfig         `toml:"geo"`
	Feedback    FeedbackConfig    `toml:"feedback"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

// BackendConfig describes the remote scoring/interpreter backend.
type BackendConfig struct {
	BaseURL        string        `toml:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `toml:"request_timeout"` // shared timeout for /recommend, /chat, /feedback
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// GeoConfig bounds the geolocation capability.
type GeoConfig struct {
	Timeout     time.Duration `toml:"timeout"` // position query timeout
	MaxAge      time.Duration `toml:"max_age"` // cached position staleness ceiling
	ProviderURL string        `toml:"provider_url"` // IP position endpoint, empty disables geolocation
}

// FeedbackConfig bounds the fire-and-forget feedback channel.
type FeedbackConfig struct {
	MinInterval time.Duration `toml:"min_interval"` // throttle between outbound feedback posts
	Burst       int           `toml:"burst"`
	Journal     bool          `toml:"journal"` // keep a local copy of emitted events
}

// MaintenanceConfig drives the background store maintenance schedule.
type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron format
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are expected in tripscout.toml; technical
// parameters live here.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Geo: GeoConfig{
			Timeout:     8 * time.Second,
			MaxAge:      60 * time.Second,
			ProviderURL: "http://ip-api.com/json",
		},
		Feedback: FeedbackConfig{
			MinInterval: 500 * time.Millisecond,
			Burst:       3,
			Journal:     true,
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "*/10 * * * *", // every 10 minutes
		},
	}
}

// LoadFromFiles loads configuration from defaults, then merges each config
// file in order (later files override earlier ones), then applies
// environment variable overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies TRIPSCOUT_* environment variables on top of the
// merged file configuration.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TRIPSCOUT_BACKEND_URL"); v != "" {
		config.Backend.BaseURL = v
	}
	if v := os.Getenv("TRIPSCOUT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("TRIPSCOUT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TRIPSCOUT_DATA_DIR"); v != "" {
		config.Storage.Badger.Path = v
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: backend.request_timeout must be positive")
	}
	if c.Geo.Timeout <= 0 || c.Geo.MaxAge <= 0 {
		return fmt.Errorf("invalid configuration: geo.timeout and geo.max_age must be positive")
	}
	return nil
}
