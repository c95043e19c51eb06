package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8080" {
			t.Errorf("expected base URL http://localhost:8080, got %s", config.API.BaseURL)
		}
		if config.Database.Path != "./staybook.db" {
			t.Errorf("expected database path ./staybook.db, got %s", config.Database.Path)
		}
		if config.Wishlist.StaleAfter() != 5*time.Minute {
			t.Errorf("expected 5m staleness, got %v", config.Wishlist.StaleAfter())
		}
		if config.API.Timeout() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.API.Timeout())
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[api]
base_url = "https://api.staybook.test"

[wishlist]
stale_after_seconds = 60
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.API.BaseURL != "https://api.staybook.test" {
			t.Errorf("expected overridden base URL, got %s", config.API.BaseURL)
		}
		if config.Wishlist.StaleAfter() != time.Minute {
			t.Errorf("expected 1m staleness, got %v", config.Wishlist.StaleAfter())
		}
		if config.Database.Path != "./staybook.db" {
			t.Errorf("expected default database path, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig invalid toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.API.BaseURL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envFile, []byte("STAYBOOK_DB_PATH=/tmp/from-dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvAPIURL, "http://api.internal:9000")
		t.Setenv(EnvLogLevel, "debug")
		t.Cleanup(func() { os.Unsetenv(EnvDBPath) })

		config := DefaultConfig()
		if err := ApplyEnv(config, envFile); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.API.BaseURL != "http://api.internal:9000" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Database.Path != "/tmp/from-dotenv.db" {
			t.Errorf("expected dotenv database path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected debug level, got %s", config.Log.Level)
		}
	})

	t.Run("ApplyEnv invalid timeout", func(t *testing.T) {
		t.Setenv("STAYBOOK_API_TIMEOUT", "soon")
		if err := ApplyEnv(DefaultConfig(), ""); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
