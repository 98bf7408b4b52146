package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the reminder service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	LogLevel  string
	LogFormat string

	StoreMode    string
	ReminderFile string
	DatabaseURL  string

	ScanEnabled     bool
	ScanInterval    time.Duration
	ScanLockTimeout time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":5000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "reminders"),
		LogLevel:         strings.ToLower(envOrDefault("APP_LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(envOrDefault("APP_LOG_FORMAT", "json")),
		StoreMode:        strings.ToLower(envOrDefault("REMINDER_STORE", "auto")),
		ReminderFile:     envOrDefault("REMINDER_FILE", "reminders.json"),
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),
		ScanEnabled:      true,
		ShutdownTimeout:  15 * time.Second,
		ScanInterval:     time.Hour,
		ScanLockTimeout:  5 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ScanInterval, err = durationFromEnv("SCAN_INTERVAL", cfg.ScanInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.ScanLockTimeout, err = durationFromEnv("SCAN_LOCK_TIMEOUT", cfg.ScanLockTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ScanEnabled, err = boolFromEnv("SCAN_ENABLED", cfg.ScanEnabled)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ScanInterval < time.Second {
		return fmt.Errorf("SCAN_INTERVAL must be at least 1s")
	}
	if c.ScanLockTimeout <= 0 {
		return fmt.Errorf("SCAN_LOCK_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.StoreMode {
	case "auto", "file", "memory", "postgres":
	default:
		return fmt.Errorf("invalid REMINDER_STORE: %q (expected auto|file|memory|postgres)", c.StoreMode)
	}
	if c.StoreMode == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("REMINDER_STORE=postgres requires DATABASE_URL")
	}
	if (c.StoreMode == "file" || (c.StoreMode == "auto" && c.DatabaseURL == "")) && c.ReminderFile == "" {
		return fmt.Errorf("REMINDER_FILE must not be empty")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid APP_LOG_FORMAT: %q (expected json|text)", c.LogFormat)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare integers are seconds, e.g. SCAN_INTERVAL=3600.
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, fmt.Errorf("%s parse error: %w", key, err)
		}
		d = time.Duration(n) * time.Second
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
