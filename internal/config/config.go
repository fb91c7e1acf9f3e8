package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full runtime configuration for the console.
type Config struct {
	Chain struct {
		ID string `yaml:"id"`
	} `yaml:"chain"`
	SessionAPI struct {
		BaseURL   string `yaml:"base_url"`
		TimeoutMs int    `yaml:"timeout_ms"`
		Simulated bool   `yaml:"simulated"`
	} `yaml:"session_api"`
	Wallet struct {
		BridgeURL      string `yaml:"bridge_url"`
		PollIntervalMs int    `yaml:"poll_interval_ms"`
		PollTimeoutMs  int    `yaml:"poll_timeout_ms"`
	} `yaml:"wallet"`
	Refresh struct {
		IntervalSec int `yaml:"interval_sec"`
	} `yaml:"refresh"`
	History struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"history"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

// Load reads the YAML config at path, then overlays environment variables
// (a .env file is honored if present).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		// No file: defaults + env only.
	} else {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Chain.ID = "cosmoshub-4"
	cfg.SessionAPI.BaseURL = "https://api.cyrus-ai.com"
	cfg.SessionAPI.TimeoutMs = 10000
	cfg.SessionAPI.Simulated = true
	cfg.Wallet.BridgeURL = "ws://127.0.0.1:8546/wallet"
	cfg.Wallet.PollIntervalMs = 500
	cfg.Wallet.PollTimeoutMs = 10000
	cfg.Refresh.IntervalSec = 60
	cfg.History.PageSize = 5
	cfg.Storage.Path = "console.db"
	cfg.Logging.Level = "info"
	cfg.Server.Port = 8080
	return cfg
}

func (c *Config) applyEnv() {
	c.Chain.ID = getEnv("CHAIN_ID", c.Chain.ID)
	c.SessionAPI.BaseURL = getEnv("SESSION_API_URL", c.SessionAPI.BaseURL)
	c.SessionAPI.Simulated = getEnvAsBool("SESSION_API_SIMULATED", c.SessionAPI.Simulated)
	c.Wallet.BridgeURL = getEnv("WALLET_BRIDGE_URL", c.Wallet.BridgeURL)
	c.Storage.Path = getEnv("STORAGE_PATH", c.Storage.Path)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
}

// Validate checks the invariants the rest of the process relies on.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.History.PageSize <= 0 {
		return fmt.Errorf("history.page_size must be positive")
	}
	if c.Wallet.PollIntervalMs <= 0 || c.Wallet.PollTimeoutMs < c.Wallet.PollIntervalMs {
		return fmt.Errorf("wallet poll timeout must be >= poll interval")
	}
	if !c.SessionAPI.Simulated && c.SessionAPI.BaseURL == "" {
		return fmt.Errorf("session_api.base_url is required when not simulated")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
