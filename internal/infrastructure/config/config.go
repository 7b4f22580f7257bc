package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Engine    EngineConfig
	Workers   WorkersConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// EngineConfig holds filesystem engine settings.
type EngineConfig struct {
	StartDir                string `envconfig:"FILECORE_START_DIR" default:""`
	CaseInsensitive         bool   `envconfig:"FILECORE_CASE_INSENSITIVE" default:"false"`
	ArchiveStagingThreshold int    `envconfig:"FILECORE_ARCHIVE_STAGING_THRESHOLD" default:"4"`
	TrashDir                string `envconfig:"FILECORE_TRASH_DIR" default:""`
}

// CasePolicy converts the flag into a path comparison policy.
func (e EngineConfig) CasePolicy() paths.CasePolicy {
	if e.CaseInsensitive {
		return paths.CaseInsensitive
	}
	return paths.CaseSensitive
}

// WorkersConfig holds background worker settings.
type WorkersConfig struct {
	SearchBuffer int `envconfig:"FILECORE_SEARCH_BUFFER" default:"64"`
	WalkWorkers  int `envconfig:"FILECORE_WALK_WORKERS" default:"0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.ArchiveStagingThreshold < 0 {
		return fmt.Errorf("invalid config: archive staging threshold %d is negative", c.Engine.ArchiveStagingThreshold)
	}
	if c.Workers.SearchBuffer < 0 {
		return fmt.Errorf("invalid config: search buffer %d is negative", c.Workers.SearchBuffer)
	}
	if c.Workers.WalkWorkers < 0 {
		return fmt.Errorf("invalid config: walk workers %d is negative", c.Workers.WalkWorkers)
	}
	if c.Engine.StartDir != "" {
		if _, err := paths.Parse(c.Engine.StartDir); err != nil {
			return fmt.Errorf("invalid config: start dir: %w", err)
		}
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Engine: EngineConfig{
			ArchiveStagingThreshold: 4,
		},
		Workers: WorkersConfig{
			SearchBuffer: 64,
		},
	}
}
