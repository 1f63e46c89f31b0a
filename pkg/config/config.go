// Package config loads server configuration from a YAML file with
// environment variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full linkd configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Stream   StreamConfig   `yaml:"stream"`
	Archive  ArchiveConfig  `yaml:"archive"`
	LogLevel string         `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SessionConfig bounds the in-memory dataset store.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	MaxDatasets   int           `yaml:"max_datasets" validate:"min=1"`
	MaxUploadSize int64         `yaml:"max_upload_size" validate:"min=1"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// AuthConfig enables optional request authentication.
type AuthConfig struct {
	Enabled       bool          `yaml:"enabled"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// CatalogConfig selects the metadata store; empty DatabaseURL means memory.
type CatalogConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// StreamConfig configures the event bus publisher.
type StreamConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport" validate:"omitempty,oneof=mangos zmq"`
	Bind      string `yaml:"bind"`
}

// ArchiveConfig configures optional S3 snapshot archiving.
type ArchiveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			MaxDatasets:   64,
			MaxUploadSize: 64 << 20,
			SweepInterval: time.Minute,
		},
		Auth: AuthConfig{
			TokenDuration: time.Hour,
		},
		Stream: StreamConfig{
			Transport: "mangos",
			Bind:      "tcp://0.0.0.0:9301",
		},
		LogLevel: "info",
	}
}

// Load reads configuration from an optional YAML file, applies environment
// overrides, then validates. Path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration's constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 32 characters when auth is enabled")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("invalid config: archive.bucket is required when archiving is enabled")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnv overrides file settings from the environment. Only the values
// that differ per deployment are exposed this way.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LINK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LINK_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LINK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LINK_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("LINK_DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("LINK_S3_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
		cfg.Archive.Enabled = true
	}
}
