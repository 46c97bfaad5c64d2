package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	LLM         LLMConfig
	Storage     StorageConfig
	Translation TranslationConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Prefix string
}

// LLMConfig points at an OpenAI-compatible API.
type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	Timeout    time.Duration
}

type StorageConfig struct {
	Dir           string
	PublicBaseURL string
}

type TranslationConfig struct {
	// MaxInFlight bounds concurrent endpoint calls of a batch. 1 keeps the
	// batch strictly sequential.
	MaxInFlight int
	// CollectorWorkers bounds concurrent relation loads while collecting units.
	CollectorWorkers int
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_DSN", "digital_menu.db?_pragma=busy_timeout(5000)"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "digital_menu_dev_secret"),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "digital_menu"),
		},
		LLM: LLMConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			ImageModel: getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			Timeout:    getEnvAsDuration("OPENAI_TIMEOUT", 120*time.Second),
		},
		Storage: StorageConfig{
			Dir:           getEnv("STORAGE_DIR", "uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/storage"),
		},
		Translation: TranslationConfig{
			MaxInFlight:      getEnvAsInt("TRANSLATION_MAX_IN_FLIGHT", 1),
			CollectorWorkers: getEnvAsInt("TRANSLATION_COLLECTOR_WORKERS", 4),
		},
	}, nil
}

// IsProduction reports whether the server runs with production logging and gin release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
