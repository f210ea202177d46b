// Package config provides configuration management for the workflow engine.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration so the process starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8000)
//   - LOG_LEVEL: Logging level (default: info)
//
// Trigger Configuration:
//   - WATCH_DIR: Directory monitored by the file watcher (default: ~/Downloads)
//   - FILE_FILTER: Glob filter for watched files (default: *)
//
// Delivery Configuration:
//   - OUTPUT_DIR: Directory for save_file delivery output (default: ~/Downloads)
//   - SMTP_ENABLED: Whether email delivery is enabled (default: true)
//   - SMTP_HOST: SMTP server host (default: smtp.gmail.com)
//   - SMTP_PORT: SMTP server port (default: 587)
//   - SMTP_USERNAME: SMTP username
//   - SMTP_PASSWORD: SMTP password
//   - SMTP_FROM_NAME: Display name on outgoing mail (default: Workflow Engine)
//   - DEFAULT_RECIPIENT: Fallback recipient when the event carries none
//
// Collaborator Configuration:
//   - PROCESSOR_URL: Content processor endpoint (empty disables remote processing)
//   - CLASSIFIER_URL: Intent classifier endpoint (empty means keyword fallback only)
//   - PROCESS_TIMEOUT: Timeout for collaborator calls (default: 30s)
//
// Engine Tuning:
//   - DEDUP_TTL: Expiry of the event dedup window (default: 10m)
//   - EVENT_RATE_LIMIT: Events per second accepted on ingestion (default: 20)
//   - EVENT_STORE_CAP: Max stored events before FIFO eviction (default: 100)
//   - RESULT_STORE_CAP: Max stored results before FIFO eviction (default: 50)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration values for the workflow engine.
type Config struct {
	// Application settings
	Port     string
	LogLevel string

	// Trigger settings
	WatchDir   string
	FileFilter string

	// Delivery settings
	OutputDir        string
	SMTPEnabled      bool
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFromName     string
	DefaultRecipient string

	// Collaborator settings
	ProcessorURL   string
	ClassifierURL  string
	ProcessTimeout time.Duration

	// Engine tuning
	DedupTTL       time.Duration
	EventRateLimit float64
	EventStoreCap  int
	ResultStoreCap int
}

// Load creates a new Config instance with values loaded from environment
// variables. Unset variables fall back to defaults. Load does not validate;
// call Validate() on the returned Config before use.
func Load() *Config {
	home, _ := os.UserHomeDir()
	downloads := filepath.Join(home, "Downloads")

	return &Config{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WatchDir:   getEnv("WATCH_DIR", downloads),
		FileFilter: getEnv("FILE_FILTER", "*"),

		OutputDir:        getEnv("OUTPUT_DIR", downloads),
		SMTPEnabled:      getBoolEnv("SMTP_ENABLED", true),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPFromName:     getEnv("SMTP_FROM_NAME", "Workflow Engine"),
		DefaultRecipient: getEnv("DEFAULT_RECIPIENT", ""),

		ProcessorURL:   getEnv("PROCESSOR_URL", ""),
		ClassifierURL:  getEnv("CLASSIFIER_URL", ""),
		ProcessTimeout: getDurationEnv("PROCESS_TIMEOUT", 30*time.Second),

		DedupTTL:       getDurationEnv("DEDUP_TTL", 10*time.Minute),
		EventRateLimit: getFloatEnv("EVENT_RATE_LIMIT", 20),
		EventStoreCap:  getIntEnv("EVENT_STORE_CAP", 100),
		ResultStoreCap: getIntEnv("RESULT_STORE_CAP", 50),
	}
}

// Validate checks that the configuration is usable. It returns the first
// problem found.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}

	if c.SMTPEnabled {
		if _, err := strconv.Atoi(c.SMTPPort); err != nil {
			return fmt.Errorf("invalid SMTP_PORT %q: %w", c.SMTPPort, err)
		}
	}

	if c.DedupTTL <= 0 {
		return fmt.Errorf("DEDUP_TTL must be positive, got %v", c.DedupTTL)
	}

	if c.ProcessTimeout <= 0 {
		return fmt.Errorf("PROCESS_TIMEOUT must be positive, got %v", c.ProcessTimeout)
	}

	if c.EventRateLimit <= 0 {
		return fmt.Errorf("EVENT_RATE_LIMIT must be positive, got %v", c.EventRateLimit)
	}

	if c.EventStoreCap <= 0 || c.ResultStoreCap <= 0 {
		return fmt.Errorf("store capacities must be positive, got events=%d results=%d",
			c.EventStoreCap, c.ResultStoreCap)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
