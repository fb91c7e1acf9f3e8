package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cyrusai/agent-console/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chain.ID != "cosmoshub-4" {
		t.Errorf("chain id = %s, want cosmoshub-4", cfg.Chain.ID)
	}
	if !cfg.SessionAPI.Simulated {
		t.Error("simulated should default to true")
	}
	if cfg.History.PageSize != 5 {
		t.Errorf("page size = %d, want 5", cfg.History.PageSize)
	}
	if cfg.Wallet.PollIntervalMs != 500 || cfg.Wallet.PollTimeoutMs != 10000 {
		t.Errorf("poll defaults = %d/%d, want 500/10000",
			cfg.Wallet.PollIntervalMs, cfg.Wallet.PollTimeoutMs)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  port: 9090\nhistory:\n  page_size: 10\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.History.PageSize != 10 {
		t.Errorf("page size = %d, want 10", cfg.History.PageSize)
	}
	// Untouched sections keep their defaults.
	if cfg.Storage.Path != "console.db" {
		t.Errorf("storage path = %s, want console.db", cfg.Storage.Path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "7070")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
}

func TestValidateRejectsBadPolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("wallet:\n  poll_interval_ms: 1000\n  poll_timeout_ms: 500\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Error("expected validation error for timeout < interval")
	}
}
