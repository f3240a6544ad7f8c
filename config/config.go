package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the report service
type Config struct {
	// Server configuration
	Port string

	// Storage configuration
	ReportsFile string
	ImageRoot   string
	StaticDir   string

	// Map configuration
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int

	// Translation configuration
	TranslateBaseURL string
	TranslateTimeout time.Duration

	// RabbitMQ configuration (disabled when the URL is empty)
	AMQPUrl        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Rate limiting configuration (disabled when the Redis address is empty)
	RedisAddress     string
	RedisPassword    string
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Storage defaults
		ReportsFile: getEnv("REPORTS_FILE", "reports.json"),
		ImageRoot:   getEnv("IMAGE_ROOT", "report_images"),
		StaticDir:   getEnv("STATIC_DIR", "static"),

		// Map defaults (Gilgit)
		MapCenterLat: getFloatEnv("MAP_CENTER_LAT", 35.9208),
		MapCenterLon: getFloatEnv("MAP_CENTER_LON", 74.3088),
		MapZoom:      getIntEnv("MAP_ZOOM", 9),

		// Translation defaults
		TranslateBaseURL: getEnv("TRANSLATE_BASE_URL", "https://api.mymemory.translated.net/get"),
		TranslateTimeout: getDurationEnv("TRANSLATE_TIMEOUT", 5*time.Second),

		// RabbitMQ defaults
		AMQPUrl:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "ecoreport"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "report.accepted"),

		// Rate limiting defaults (30 submissions per hour per IP)
		RedisAddress:     getEnv("REDIS_ADDRESS", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SubmitRateLimit:  getIntEnv("SUBMIT_RATE_LIMIT", 30),
		SubmitRateWindow: getDurationEnv("SUBMIT_RATE_WINDOW", time.Hour),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable or returns a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
