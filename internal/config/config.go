package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/segcraft-go/internal/constants"
)

type Config struct {
	Content    ContentConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

type ContentConfig struct {
	SourceFile string
	OutputDir  string
}

type LLMConfig struct {
	Provider     string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
}

// HasCredential reports whether the selected provider can make live calls.
func (c LLMConfig) HasCredential() bool {
	if strings.EqualFold(c.Provider, "gemini") {
		return strings.TrimSpace(c.GeminiAPIKey) != ""
	}
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

type GenerationConfig struct {
	ForceMock   bool
	Timeout     time.Duration
	Concurrency int
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	HistoryLimit int
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Content: ContentConfig{
			SourceFile: getEnv("SEGCRAFT_CONTENT_FILE", "input_texts/text.txt"),
			OutputDir:  getEnv("SEGCRAFT_OUTPUT_DIR", "."),
		},
		LLM: LLMConfig{
			Provider:     strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("MODEL_NAME", "gpt-4o-mini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Generation: GenerationConfig{
			ForceMock:   getEnvBool("SEGCRAFT_FORCE_MOCK", false),
			Timeout:     time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", int(constants.GenerationConfig.DefaultTimeout/time.Second))) * time.Second,
			Concurrency: getEnvInt("GENERATION_CONCURRENCY", constants.GenerationConfig.DefaultConcurrency),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			HistoryLimit: getEnvInt("REDIS_HISTORY_LIMIT", constants.HistoryConfig.DefaultLimit),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "segcraft"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "segcraft"),
		},
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8080"),
			CORSOrigins: parseCommaSeparated(getEnv("SERVER_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Content.SourceFile == "" {
		return fmt.Errorf("SEGCRAFT_CONTENT_FILE is required")
	}
	if c.Content.OutputDir == "" {
		return fmt.Errorf("SEGCRAFT_OUTPUT_DIR is required")
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", c.LLM.Provider)
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT_SECONDS must be positive")
	}
	if c.Generation.Concurrency <= 0 {
		return fmt.Errorf("GENERATION_CONCURRENCY must be positive")
	}
	if c.Redis.Enabled && c.Redis.HistoryLimit <= 0 {
		return fmt.Errorf("REDIS_HISTORY_LIMIT must be positive")
	}
	if c.Postgres.Enabled && c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required when POSTGRES_ENABLED is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
