package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Postgres (users table + pgvector chunk table share one pool)
	DatabaseURL string

	// Auth
	JWTSecret    string
	JWTExpiresIn string
	BcryptCost   int

	// Ollama embedding/LLM service
	OllamaBaseURL       string
	EmbeddingModel      string
	LLMModel            string
	EmbeddingDimensions int

	// Ingestion
	MaxFileSize      int64
	MaxContentLength int
	MaxChunkSize     int
	ChunkOverlap     int
	MinChunkSize     int
	FileStorageDir   string

	// Redis (rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	OTLPEndpoint   string
	TracingEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		DatabaseURL: getEnv("DATABASE_URL", buildPostgresURL()),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnv("JWT_EXPIRES_IN", "30m"),
		BcryptCost:   getEnvInt("BCRYPT_COST", 12),

		OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		LLMModel:            getEnv("LLM_MODEL", "gemma3:1b"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),

		MaxFileSize:      getEnvInt64("MAX_FILE_SIZE", 104857600), // 100MB
		MaxContentLength: getEnvInt("MAX_CONTENT_LENGTH", 50000),
		MaxChunkSize:     getEnvInt("MAX_CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		MinChunkSize:     getEnvInt("MIN_CHUNK_SIZE", 100),
		FileStorageDir:   getEnv("FILE_STORAGE_DIR", "./uploads"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ChunkOverlap >= cfg.MaxChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be smaller than MAX_CHUNK_SIZE")
	}

	return cfg, nil
}

// buildPostgresURL assembles a connection string from the discrete PG*
// variables when DATABASE_URL is not set.
func buildPostgresURL() string {
	host := getEnv("PGHOST", "localhost")
	port := getEnv("PGPORT", "5432")
	name := getEnv("PGDATABASE", "embeddings")
	user := getEnv("PGUSER", "postgres")
	password := getEnv("PGPASSWORD", "")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
