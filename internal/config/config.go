// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	Valkey   ValkeyConfig
	MinIO    MinIOConfig
	Neo4j    Neo4jConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// LLMConfig configures the OpenAI-compatible text-generation service.
// An empty APIKey disables formula explanations.
type LLMConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

type AnalysisConfig struct {
	Workers        int
	IncludeContext bool
}

// ValkeyConfig configures the persistent prompt cache. Empty Addr disables it.
type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// MinIOConfig configures upload archiving. Empty Endpoint disables it.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Neo4jConfig configures the graph sink. Empty URI disables it.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:    time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout:   time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 300)) * time.Second,
			MaxUploadBytes: int64(getEnvInt("SERVER_MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		},
		LLM: LLMConfig{
			APIKey:    getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:     getEnv("LLM_MODEL", ""),
			BaseURL:   getEnv("LLM_BASE_URL", ""),
			MaxTokens: getEnvInt("LLM_MAX_TOKENS", 300),
		},
		Analysis: AnalysisConfig{
			Workers:        getEnvInt("NAMEDEPS_WORKERS", 4),
			IncludeContext: getEnvBool("NAMEDEPS_INCLUDE_CONTEXT", true),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
			TTL:      time.Duration(getEnvInt("VALKEY_PROMPT_TTL_HOURS", 24*7)) * time.Hour,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "namedeps"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", ""),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
