// Package config loads service configuration from an optional YAML
// file with environment-variable overrides. A .env file is honored
// when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Models names the model identifier used per task family.
type Models struct {
	Text      string `yaml:"text"`      // angle analysis, plan, hooks, titles, audit, rewrite
	Reasoning string `yaml:"reasoning"` // algorithm-fit diagnostics
	Image     string `yaml:"image"`     // shot visuals, thumbnails
	TTS       string `yaml:"tts"`       // narration synthesis
}

// Config is the full service configuration.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir"`

	APIKey     string        `yaml:"api_key"`
	APIBaseURL string        `yaml:"api_base_url"`
	Models     Models        `yaml:"models"`
	Timeout    time.Duration `yaml:"timeout"`

	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

func defaults() Config {
	return Config{
		Port:     "3000",
		LogLevel: "info",
		DataDir:  "data",

		APIBaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Models: Models{
			Text:      "gemini-2.5-flash",
			Reasoning: "gemini-3-pro-preview",
			Image:     "gemini-2.5-flash-image",
			TTS:       "gemini-2.5-flash-preview-tts",
		},
		Timeout: 90 * time.Second,

		RateLimit:       10,
		RateLimitWindow: time.Minute,
		SessionTTL:      12 * time.Hour,
	}
}

// Load reads the YAML file at path (skipped when path is "" or the
// file does not exist) and applies environment overrides on top of the
// built-in defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env/defaults.
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("missing API key: set API_KEY or api_key in %s", path)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.APIKey, "API_KEY")
	setString(&cfg.APIBaseURL, "API_BASE_URL")
	setString(&cfg.Models.Text, "MODEL_TEXT")
	setString(&cfg.Models.Reasoning, "MODEL_REASONING")
	setString(&cfg.Models.Image, "MODEL_IMAGE")
	setString(&cfg.Models.TTS, "MODEL_TTS")
	setInt(&cfg.RateLimit, "RATE_LIMIT")
	setDuration(&cfg.Timeout, "API_TIMEOUT")
	setDuration(&cfg.RateLimitWindow, "RATE_LIMIT_WINDOW")
	setDuration(&cfg.SessionTTL, "SESSION_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
