package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Render    RenderConfig    `yaml:"render"`
	Cache     CacheConfig     `yaml:"cache"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// RenderConfig is handed to the document renderer as explicit options.
type RenderConfig struct {
	// BaseURL is the public address printed as the scan-to-view linkback.
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	LinkbackTimeout time.Duration `yaml:"linkback_timeout"`
	DefaultStyle    string        `yaml:"default_style"`
}

type CacheConfig struct {
	// Dir holds the rendered document cache; empty disables caching.
	Dir string `yaml:"dir"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix COACHPLAN_ and underscore-separated paths:
//
//	COACHPLAN_SERVER_HOST, COACHPLAN_SERVER_PORT,
//	COACHPLAN_DB_HOST, COACHPLAN_DB_PORT, COACHPLAN_DB_NAME,
//	COACHPLAN_DB_USER, COACHPLAN_DB_PASSWORD, COACHPLAN_DB_SSLMODE,
//	COACHPLAN_AUTH_API_KEY,
//	COACHPLAN_RENDER_BASE_URL, COACHPLAN_RENDER_TIMEOUT,
//	COACHPLAN_CACHE_DIR,
//	COACHPLAN_TAILSCALE_ENABLED, COACHPLAN_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COACHPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("COACHPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("COACHPLAN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("COACHPLAN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("COACHPLAN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("COACHPLAN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("COACHPLAN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("COACHPLAN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("COACHPLAN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("COACHPLAN_RENDER_BASE_URL"); v != "" {
		cfg.Render.BaseURL = v
	}
	if v := os.Getenv("COACHPLAN_RENDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Render.Timeout = d
		}
	}
	if v := os.Getenv("COACHPLAN_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("COACHPLAN_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("COACHPLAN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Render.Timeout == 0 {
		cfg.Render.Timeout = 30 * time.Second
	}
	if cfg.Render.LinkbackTimeout == 0 {
		cfg.Render.LinkbackTimeout = 5 * time.Second
	}
	if cfg.Render.DefaultStyle == "" {
		cfg.Render.DefaultStyle = "compact"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "coachplan"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Render.Timeout < 0 {
		return fmt.Errorf("render.timeout must be positive")
	}
	switch c.Render.DefaultStyle {
	case "compact", "landscape", "enhanced":
	default:
		return fmt.Errorf("render.default_style %q is not one of compact, landscape, enhanced", c.Render.DefaultStyle)
	}
	return nil
}
