// Package config reads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the service
type Config struct {
	// Database
	DBURL string

	// Messaging
	RabbitMQURL     string
	UploadQueue     string
	UpdatesExchange string
	Workers         int

	// R2 object storage
	R2AccountID string
	R2Bucket    string
	R2AccessKey string
	R2SecretKey string

	// Gemini enrichment, optional
	GoogleAPIKey   string
	GeminiModel    string
	EnrichInterval time.Duration

	// Server
	Port       string
	Debug      bool
	SessionDir string

	// Uploads
	MaxUploadBytes int64
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		DBURL: getEnv("DB_URL", ""),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		UploadQueue:     getEnv("UPLOAD_QUEUE", "resume_uploads"),
		UpdatesExchange: getEnv("UPDATES_EXCHANGE", "session_updates"),
		Workers:         getEnvInt("WORKERS", 3),

		R2AccountID: getEnv("R2_ACCOUNT_ID", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_KEY", ""),

		GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		EnrichInterval: time.Duration(getEnvInt("ENRICH_INTERVAL_MS", 1000)) * time.Millisecond,

		Port:       getEnv("PORT", "8080"),
		Debug:      getEnvBool("DEBUG", false),
		SessionDir: getEnv("SESSION_DIR", ".sessions"),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
	}
}

// EnrichmentEnabled reports whether a model key is configured.
func (c *Config) EnrichmentEnabled() bool {
	return c.GoogleAPIKey != ""
}

// ValidateServe checks what the HTTP API needs.
func (c *Config) ValidateServe() error {
	if c.Port == "" {
		return &ConfigError{Field: "PORT", Message: "PORT is required"}
	}
	if c.MaxUploadBytes <= 0 {
		return &ConfigError{Field: "MAX_UPLOAD_BYTES", Message: "MAX_UPLOAD_BYTES must be positive"}
	}
	return nil
}

// ValidateWorker checks what the queue worker needs.
func (c *Config) ValidateWorker() error {
	required := []struct {
		field string
		value string
	}{
		{"DB_URL", c.DBURL},
		{"RABBITMQ_URL", c.RabbitMQURL},
		{"R2_ACCOUNT_ID", c.R2AccountID},
		{"R2_BUCKET", c.R2Bucket},
		{"R2_ACCESS_KEY", c.R2AccessKey},
		{"R2_SECRET_KEY", c.R2SecretKey},
	}
	for _, r := range required {
		if r.value == "" {
			return &ConfigError{Field: r.field, Message: "empty " + r.field + " in environment"}
		}
	}
	if c.Workers < 1 {
		return &ConfigError{Field: "WORKERS", Message: "WORKERS must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
