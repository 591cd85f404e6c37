package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if conf.Server.ListenAddress != ":8080" {
		t.Errorf("Expected default listen address :8080, got %q", conf.Server.ListenAddress)
	}
	if conf.Banner.TTLSeconds != 4 {
		t.Errorf("Expected default banner TTL 4s, got %d", conf.Banner.TTLSeconds)
	}
	if conf.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %q", conf.Logging.Level)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte("server:\n  listenAddress: \":9090\"\nbanner:\n  ttlSeconds: 10\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if conf.Server.ListenAddress != ":9090" {
		t.Errorf("Expected listen address :9090, got %q", conf.Server.ListenAddress)
	}
	if conf.Banner.TTLSeconds != 10 {
		t.Errorf("Expected banner TTL 10s, got %d", conf.Banner.TTLSeconds)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", conf.Logging.Level)
	}
	if conf.Server.ReadTimeoutSeconds != 15 {
		t.Errorf("Expected default read timeout to survive partial config, got %d", conf.Server.ReadTimeoutSeconds)
	}
}

func TestLoadConfigurationMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("server: [unterminated\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}
