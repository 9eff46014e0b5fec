package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Completion provider (OpenAI-compatible chat completions endpoint).
	OpenAIAPIURL      string
	OpenAIAPIKey      string
	OpenAIAuthKey     string
	OpenAIModel       string
	OpenAITemperature float64
	OpenAIMaxTokens   int

	// Embedding provider (OpenAI-compatible embeddings endpoint).
	EmbeddingAPIURL string
	EmbeddingModel  string
	VectorSize      int

	// Content source (headless CMS) and the local instance used as
	// feedback sink / session archive.
	StrapiAPIURL        string
	StrapiAPIToken      string
	LocalStrapiAPIURL   string
	LocalStrapiAPIToken string

	// Session store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Vector index.
	QdrantURL        string
	QdrantCollection string

	// Data directory for the canonical knowledge JSON and hint file.
	DataDir string

	// Background sync.
	SyncInterval time.Duration
	SyncWindow   time.Duration

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory it is loaded automatically;
// environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIURL:  getEnv("OPENAI_API_URL", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIAuthKey: getEnv("OPENAI_AUTH_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),

		EmbeddingAPIURL: getEnv("EMBEDDING_API_URL", ""),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),

		StrapiAPIURL:        getEnv("STRAPI_API_URL", ""),
		StrapiAPIToken:      getEnv("STRAPI_API_TOKEN", ""),
		LocalStrapiAPIURL:   getEnv("LOCAL_STRAPI_API_URL", "http://localhost:1337"),
		LocalStrapiAPIToken: getEnv("LOCAL_STRAPI_API_TOKEN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "im-customer-service"),

		DataDir: getEnv("DATA_DIR", "./data"),

		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.VectorSize, err = getEnvInt("VECTOR_SIZE", 1536); err != nil {
		return nil, err
	}
	if cfg.OpenAITemperature, err = getEnvFloat("OPENAI_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.OpenAIMaxTokens, err = getEnvInt("OPENAI_MAX_TOKENS", 2000); err != nil {
		return nil, err
	}
	if cfg.VectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	if cfg.SyncInterval, err = getEnvDuration("SYNC_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SyncWindow, err = getEnvDuration("SYNC_WINDOW", 24*time.Hour); err != nil {
		return nil, err
	}

	switch level := getEnv("LOG_LEVEL", "info"); level {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", level)
	}

	// Validate required fields.
	if cfg.OpenAIAPIURL == "" {
		return nil, fmt.Errorf("OPENAI_API_URL is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.EmbeddingAPIURL == "" {
		cfg.EmbeddingAPIURL = cfg.OpenAIAPIURL
	}
	if cfg.StrapiAPIURL == "" {
		return nil, fmt.Errorf("STRAPI_API_URL is required")
	}

	// The data directory must be writable; an unwritable path is the one
	// startup condition the caller treats as fatal.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.DataDir = filepath.Clean(cfg.DataDir)

	return cfg, nil
}

// KnowledgeFilePath returns the path of the canonical knowledge JSON file.
func (c *Config) KnowledgeFilePath() string {
	return filepath.Join(c.DataDir, "strapi_knowledge_parsed.json")
}

// RawKnowledgeFilePath returns the path of the raw full-fetch snapshot.
func (c *Config) RawKnowledgeFilePath() string {
	return filepath.Join(c.DataDir, "strapi_knowledge_full.json")
}

// HintFilePath returns the path of the persisted search-hint file.
func (c *Config) HintFilePath() string {
	return filepath.Join(c.DataDir, "search_hints.json")
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
