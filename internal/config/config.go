package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds the collaborative server location.
type ServerConfig struct {
	URL string `envconfig:"SERVER_URL" default:"http://localhost:5006" yaml:"url"`
}

// SessionConfig holds room session settings.
type SessionConfig struct {
	Room           string        `envconfig:"ROOM" yaml:"room"`
	Nickname       string        `envconfig:"NICKNAME" yaml:"nickname"`
	ReconnectDelay time.Duration `envconfig:"RECONNECT_DELAY" default:"3s" yaml:"reconnect_delay"`
	TypingDebounce time.Duration `envconfig:"TYPING_DEBOUNCE" default:"1s" yaml:"typing_debounce"`
	TypingTTL      time.Duration `envconfig:"TYPING_TTL" default:"6s" yaml:"typing_ttl"`
	SendRate       float64       `envconfig:"SEND_RATE" default:"5" yaml:"send_rate"`
	SendBurst      int           `envconfig:"SEND_BURST" default:"10" yaml:"send_burst"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// MetricsConfig holds the optional Prometheus listener address.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR" yaml:"addr"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("GUMMY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
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

// LoadFile overlays a YAML config file on top of the environment configuration.
func LoadFile(path string) (*Config, error) {
	cfg := LoadOrDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:5006",
		},
		Session: SessionConfig{
			ReconnectDelay: 3 * time.Second,
			TypingDebounce: time.Second,
			TypingTTL:      6 * time.Second,
			SendRate:       5,
			SendBurst:      10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL missing host")
	}
	if c.Session.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be positive")
	}
	if c.Session.TypingDebounce <= 0 {
		return fmt.Errorf("typing debounce must be positive")
	}
	if c.Session.SendRate <= 0 {
		return fmt.Errorf("send rate must be positive")
	}
	if c.Session.SendBurst <= 0 {
		return fmt.Errorf("send burst must be positive")
	}
	return nil
}
