package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Session.MaxDatasets != 64 {
		t.Errorf("Expected 64 max datasets, got %d", cfg.Session.MaxDatasets)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Unexpected addr %q", cfg.Addr())
	}
	if cfg.Session.SweepInterval != time.Minute {
		t.Errorf("Expected 1m sweep interval, got %v", cfg.Session.SweepInterval)
	}
	if cfg.Stream.Transport != "mangos" {
		t.Errorf("Expected mangos transport default, got %q", cfg.Stream.Transport)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "link.yaml")
	data := `
server:
  host: 127.0.0.1
  port: 9090
session:
  ttl: 5m
  max_datasets: 8
  sweep_interval: 30s
stream:
  enabled: true
  transport: zmq
  bind: tcp://0.0.0.0:9400
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("File values not applied: %+v", cfg.Server)
	}
	if cfg.Session.TTL != 5*time.Minute {
		t.Errorf("Expected 5m TTL, got %v", cfg.Session.TTL)
	}
	if cfg.Session.SweepInterval != 30*time.Second {
		t.Errorf("Expected 30s sweep interval, got %v", cfg.Session.SweepInterval)
	}
	if cfg.Stream.Transport != "zmq" {
		t.Errorf("Expected zmq transport, got %q", cfg.Stream.Transport)
	}
	// Unset file values keep defaults
	if cfg.Session.MaxUploadSize != 64<<20 {
		t.Errorf("Expected default upload size, got %d", cfg.Session.MaxUploadSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/link.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LINK_PORT", "7000")
	t.Setenv("LINK_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Expected env port 7000, got %d", cfg.Server.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected env log level warn, got %q", cfg.LogLevel)
	}
}

func TestValidation(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected zero port rejected")
	}

	cfg = Default()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = "short"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("Expected jwt_secret error, got %v", err)
	}

	cfg = Default()
	cfg.Archive.Enabled = true
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "bucket") {
		t.Errorf("Expected bucket error, got %v", err)
	}

	cfg = Default()
	cfg.Stream.Transport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected unknown stream transport rejected")
	}
}
