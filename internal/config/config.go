package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	MongoDB MongoDBConfig
	Report  ReportConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// AIConfig holds configuration for the external analysis provider
type AIConfig struct {
	Provider    string // "gemini" (default) or "openai"
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// MongoDBConfig holds MongoDB connection details for the session store.
// When neither URI nor Host is set, the in-memory store is used instead.
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	Collection string
	AuthSource string // Database to authenticate against (default: admin)
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	OutputDir  string // batch mode workbook directory
	SchemaPath string // JSON schema for the AI aggregation shape
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8085"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		AI: AIConfig{
			Provider:    getEnv("AI_PROVIDER", "gemini"),
			APIKey:      getEnv("AI_API_KEY", ""),
			Model:       getEnv("AI_MODEL", ""),
			Temperature: getEnvFloat("AI_TEMPERATURE", 0.3),
			MaxTokens:   getEnvInt("AI_MAX_TOKENS", 0), // 0 means provider default
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "reports"),
			Collection: getEnv("MONGODB_COLLECTION", "sessions"),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
		},
		Report: ReportConfig{
			OutputDir:  getEnv("REPORT_OUTPUT_DIR", "reports"),
			SchemaPath: getEnv("REPORT_SCHEMA_PATH", "schemas/aggregation_schema.json"),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that required configuration values are present
func ValidateConfig(config *Config) error {
	switch config.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("AI_PROVIDER must be \"gemini\" or \"openai\", got %q", config.AI.Provider)
	}
	// API keys may also arrive per-request, so an empty AI_API_KEY is fine here.
	if config.Report.OutputDir == "" {
		return fmt.Errorf("REPORT_OUTPUT_DIR must not be empty")
	}
	return nil
}

// Helper functions for environment variable access
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
