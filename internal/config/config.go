package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `envconfig:"PORT" default:"8080" json:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" json:"host"`

	// NewsData.io settings
	NewsDataAPIKey  string `envconfig:"NEWSDATA_API_KEY" json:"-"` // Don't expose in JSON
	NewsDataBaseURL string `envconfig:"NEWSDATA_BASE_URL" default:"https://newsdata.io/api/1" json:"newsdata_base_url"`

	// Lesson generation settings
	LessonProvider string `envconfig:"LESSON_PROVIDER" default:"claude" json:"lesson_provider"`

	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY" json:"-"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-haiku-4-5-20251001" json:"anthropic_model"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com/v1" json:"anthropic_base_url"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" json:"-"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash" json:"gemini_model"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/models" json:"gemini_base_url"`

	// Cache settings
	NewsCacheTTL   time.Duration `envconfig:"NEWS_CACHE_TTL" default:"1h" json:"news_cache_ttl"`
	LessonCacheTTL time.Duration `envconfig:"LESSON_CACHE_TTL" default:"24h" json:"lesson_cache_ttl"`
	CacheCapacity  uint64        `envconfig:"CACHE_CAPACITY" default:"512" json:"cache_capacity"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s" json:"http_timeout"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info" json:"log_level"`

	// Cron expression for warming the news cache in the local server; empty disables it
	NewsPrefetchSchedule string `envconfig:"NEWS_PREFETCH_SCHEDULE" json:"news_prefetch_schedule"`
}

// Load reads configuration from environment variables and .env file.
// Missing API keys are not an error here; each function reports them per request.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return &config, config.Validate()
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.LessonProvider != ProviderClaude && c.LessonProvider != ProviderGemini {
		return &ConfigError{Field: "LESSON_PROVIDER", Message: fmt.Sprintf("unsupported provider %q (valid: claude, gemini)", c.LessonProvider)}
	}
	if c.NewsCacheTTL <= 0 {
		return &ConfigError{Field: "NEWS_CACHE_TTL", Message: "must be positive"}
	}
	if c.LessonCacheTTL <= 0 {
		return &ConfigError{Field: "LESSON_CACHE_TTL", Message: "must be positive"}
	}
	if c.CacheCapacity == 0 {
		return &ConfigError{Field: "CACHE_CAPACITY", Message: "must be positive"}
	}
	return nil
}

// LessonAPIKey returns the credential of the selected lesson provider
func (c *Config) LessonAPIKey() string {
	if c.LessonProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.AnthropicAPIKey
}

// LessonAPIKeyEnv returns the environment variable holding LessonAPIKey
func (c *Config) LessonAPIKeyEnv() string {
	if c.LessonProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
