package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"viralflow/internal/config"
)

func TestLoad_DefaultsWithEnvKey(t *testing.T) {
	t.Setenv("API_KEY", "test-key")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Models.Text != "gemini-2.5-flash" {
		t.Errorf("Models.Text = %q", cfg.Models.Text)
	}
	if cfg.Models.TTS != "gemini-2.5-flash-preview-tts" {
		t.Errorf("Models.TTS = %q", cfg.Models.TTS)
	}
	if cfg.RateLimit != 10 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v", cfg.RateLimit, cfg.RateLimitWindow)
	}
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	t.Setenv("API_KEY", "")

	if _, err := config.Load(""); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("port: \"8080\"\napi_key: yaml-key\nmodels:\n  text: custom-model\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("API_KEY", "")
	t.Setenv("PORT", "9090")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIKey != "yaml-key" {
		t.Errorf("APIKey = %q, want yaml-key", cfg.APIKey)
	}
	if cfg.Models.Text != "custom-model" {
		t.Errorf("Models.Text = %q, want custom-model", cfg.Models.Text)
	}
	// Environment wins over the file.
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	// Unset fields keep defaults.
	if cfg.Models.Image != "gemini-2.5-flash-image" {
		t.Errorf("Models.Image = %q", cfg.Models.Image)
	}
}

func TestLoad_AbsentFileFallsThrough(t *testing.T) {
	t.Setenv("API_KEY", "env-key")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}
