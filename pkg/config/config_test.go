package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}

	wantDB := filepath.Join(home, ".local", "share", "webship", "webship.db")
	if cfg.Database.Path != wantDB {
		t.Errorf("Expected default database path %s, got %s", wantDB, cfg.Database.Path)
	}

	if cfg.Preview.Host != "127.0.0.1" || cfg.Preview.Port != 4173 {
		t.Errorf("Unexpected preview defaults: %s:%d", cfg.Preview.Host, cfg.Preview.Port)
	}

	if cfg.Timeouts.Deploy != 15*time.Minute {
		t.Errorf("Expected deploy timeout 15m, got %s", cfg.Timeouts.Deploy)
	}

	if cfg.Timeouts.Check != 20*time.Second {
		t.Errorf("Expected check timeout 20s, got %s", cfg.Timeouts.Check)
	}

	if cfg.Defaults.Platform != "" {
		t.Errorf("Expected no default platform, got %s", cfg.Defaults.Platform)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webship.yaml")
	content := `log:
  level: debug
preview:
  port: 8080
timeouts:
  deploy: 5m
defaults:
  platform: netlify
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Preview.Port != 8080 {
		t.Errorf("Expected preview port 8080, got %d", cfg.Preview.Port)
	}
	if cfg.Timeouts.Deploy != 5*time.Minute {
		t.Errorf("Expected deploy timeout 5m, got %s", cfg.Timeouts.Deploy)
	}
	if cfg.Defaults.Platform != "netlify" {
		t.Errorf("Expected default platform netlify, got %s", cfg.Defaults.Platform)
	}

	// Keys the file does not set keep their defaults
	if cfg.Preview.Host != "127.0.0.1" {
		t.Errorf("Expected preview host default, got %s", cfg.Preview.Host)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEBSHIP_LOG_LEVEL", "warn")
	t.Setenv("WEBSHIP_PREVIEW_PORT", "9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Expected log level warn from env, got %s", cfg.Log.Level)
	}
	if cfg.Preview.Port != 9999 {
		t.Errorf("Expected preview port 9999 from env, got %d", cfg.Preview.Port)
	}
}

func TestLoad_TildeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WEBSHIP_DATABASE_PATH", "~/history/webship.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	want := filepath.Join(home, "history", "webship.db")
	if cfg.Database.Path != want {
		t.Errorf("Expected expanded path %s, got %s", want, cfg.Database.Path)
	}
}
