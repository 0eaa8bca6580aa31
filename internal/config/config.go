// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Crawler    CrawlerConfig    `mapstructure:"crawler"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Generation GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                   int `mapstructure:"port"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

// CrawlerConfig governs page discovery and fetching.
type CrawlerConfig struct {
	FetchConcurrency      int    `mapstructure:"fetch_concurrency"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	UserAgent             string `mapstructure:"user_agent"`
	RespectRobots         bool   `mapstructure:"respect_robots"`
	MaxPagesDefault       int    `mapstructure:"max_pages_default"`
}

// GeminiConfig configures the language model client.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GenerationConfig holds document synthesis settings.
type GenerationConfig struct {
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from .env files, an optional config file, and the environment.
func Load(path string) (Config, error) {
	// godotenv never overrides variables that are already set, so .env.local
	// is loaded first to take precedence over .env. Missing files are fine.
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}

	v := viper.New()
	v.SetEnvPrefix("LLMSTXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", "LLMSTXT_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind gemini api key: %w", err)
	}
	if err := v.BindEnv("server.port", "LLMSTXT_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind server port: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.shutdown_timeout_seconds", 30)
	v.SetDefault("crawler.fetch_concurrency", 5)
	v.SetDefault("crawler.request_timeout_seconds", 10)
	v.SetDefault("crawler.user_agent", "llmstxt-crawler/1.0 (+https://github.com/JakeFAU/llmstxt-crawler)")
	v.SetDefault("crawler.respect_robots", false)
	v.SetDefault("crawler.max_pages_default", 50)
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.timeout_seconds", 120)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be > 0")
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return errors.New("server.shutdown_timeout_seconds must be > 0")
	}
	if c.Crawler.FetchConcurrency <= 0 {
		return errors.New("crawler.fetch_concurrency must be > 0")
	}
	if c.Crawler.RequestTimeoutSeconds <= 0 {
		return errors.New("crawler.request_timeout_seconds must be > 0")
	}
	if c.Crawler.MaxPagesDefault <= 0 {
		return errors.New("crawler.max_pages_default must be > 0")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model must be set")
	}
	return nil
}

// RequestTimeout is the per-page fetch timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Crawler.RequestTimeoutSeconds) * time.Second
}

// GenerationTimeout bounds a single language model call.
func (c Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server and in-flight jobs.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
