// ABOUTME: Centralized configuration for the sitechat engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the chatbot engine
type Config struct {
	// Provider settings
	Provider       string // embedding/chat provider name ("openai")
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	EmbedTimeout   time.Duration
	MaxRetries     int // chat completion retries; embeddings never retry
	RetryDelay     time.Duration

	// Site identity used by the context builder
	SiteName        string
	SiteURL         string
	SiteDescription string
	SiteContact     string
	SiteLanguage    string

	// Search settings
	VectorDimension   int
	ContentThreshold  float64 // minimum similarity for content hits
	TrainingThreshold float64 // minimum similarity for training matches
	SearchLimit       int

	// Context builder settings
	MaxContextLength int

	// Intent settings
	IntentSensitivity string // high, medium, low
	SemanticIntentTTL time.Duration

	// Cache settings
	CacheTTL     time.Duration
	CacheSize    int
	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	RedisDB      int

	// Batch embedding settings
	BatchSize  int
	BatchDelay time.Duration

	// Pipeline settings
	RequestTimeout time.Duration

	// Storage settings
	DBPath string

	// HTTP server settings
	ListenAddr string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:       getEnv("SITECHAT_PROVIDER", "openai"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("SITECHAT_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("SITECHAT_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbedTimeout:   getEnvDuration("SITECHAT_EMBED_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("SITECHAT_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("SITECHAT_RETRY_DELAY", 2*time.Second),

		SiteName:        getEnv("SITECHAT_SITE_NAME", ""),
		SiteURL:         getEnv("SITECHAT_SITE_URL", ""),
		SiteDescription: getEnv("SITECHAT_SITE_DESCRIPTION", ""),
		SiteContact:     getEnv("SITECHAT_SITE_CONTACT", ""),
		SiteLanguage:    getEnv("SITECHAT_SITE_LANGUAGE", "en"),

		VectorDimension:   getEnvInt("SITECHAT_VECTOR_DIMENSION", 1536),
		ContentThreshold:  getEnvFloat("SITECHAT_CONTENT_THRESHOLD", 0.75),
		TrainingThreshold: getEnvFloat("SITECHAT_TRAINING_THRESHOLD", 0.75),
		SearchLimit:       getEnvInt("SITECHAT_SEARCH_LIMIT", 5),

		MaxContextLength: getEnvInt("SITECHAT_MAX_CONTEXT_LENGTH", 4000),

		IntentSensitivity: getEnv("SITECHAT_INTENT_SENSITIVITY", "medium"),
		SemanticIntentTTL: getEnvDuration("SITECHAT_SEMANTIC_INTENT_TTL", time.Hour),

		CacheTTL:     getEnvDuration("SITECHAT_CACHE_TTL", 24*time.Hour),
		CacheSize:    getEnvInt("SITECHAT_CACHE_SIZE", 4096),
		CacheBackend: getEnv("SITECHAT_CACHE_BACKEND", "memory"),
		RedisAddr:    getEnv("SITECHAT_REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("SITECHAT_REDIS_DB", 0),

		BatchSize:  getEnvInt("SITECHAT_BATCH_SIZE", 10),
		BatchDelay: getEnvDuration("SITECHAT_BATCH_DELAY", 100*time.Millisecond),

		RequestTimeout: getEnvDuration("SITECHAT_REQUEST_TIMEOUT", 12*time.Second),

		DBPath:     os.Getenv("SITECHAT_DB_PATH"),
		ListenAddr: getEnv("SITECHAT_LISTEN_ADDR", ":8485"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ContentThreshold < 0 || c.ContentThreshold > 1 {
		return fmt.Errorf("SITECHAT_CONTENT_THRESHOLD must be 0-1, got %f", c.ContentThreshold)
	}
	if c.TrainingThreshold < 0 || c.TrainingThreshold > 1 {
		return fmt.Errorf("SITECHAT_TRAINING_THRESHOLD must be 0-1, got %f", c.TrainingThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("SITECHAT_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("SITECHAT_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.MaxContextLength <= 0 {
		return fmt.Errorf("SITECHAT_MAX_CONTEXT_LENGTH must be positive, got %d", c.MaxContextLength)
	}
	switch c.IntentSensitivity {
	case "high", "medium", "low":
	default:
		return fmt.Errorf("SITECHAT_INTENT_SENSITIVITY must be high, medium, or low, got %q", c.IntentSensitivity)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("SITECHAT_CACHE_BACKEND must be memory or redis, got %q", c.CacheBackend)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("SITECHAT_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
