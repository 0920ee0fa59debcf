package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port string

	// LLM
	GeminiAPIKey string
	EnableModel  bool

	// Job queue
	QueueSize  int
	JobTimeout time.Duration

	// Analysis defaults
	HighSpendingDay float64
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		EnableModel:     getEnvBool("ENABLE_MODEL", true),
		QueueSize:       getEnvInt("QUEUE_SIZE", 100),
		JobTimeout:      getEnvDuration("JOB_TIMEOUT", 2*time.Minute),
		HighSpendingDay: getEnvFloat("HIGH_SPENDING_DAY", 200),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.QueueSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid queue size %d: must be at least 1", c.QueueSize))
	} else if c.QueueSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid queue size %d: must be at most 10000", c.QueueSize))
	}

	if c.JobTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid job timeout %v: must be at least 1 second", c.JobTimeout))
	}

	if c.HighSpendingDay <= 0 {
		errors = append(errors, fmt.Sprintf("invalid high spending threshold %v: must be positive", c.HighSpendingDay))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
