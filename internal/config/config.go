package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	applog "waterlog/internal/log"
)

// Backend names accepted by DataBackend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	DefaultDailyGoal  = 2000
	DefaultBarHeight  = 20
	DefaultWindowDays = 7

	maxBarHeight  = 100
	maxWindowDays = 7
)

type Config struct {
	// Storage
	DataBackend  string
	JSONPath     string
	SQLiteDBPath string

	// Progress
	DailyGoal  int // ml
	BarHeight  int // rows
	WindowDays int

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset. Flags may override the result afterwards.
func Load() *Config {
	return &Config{
		DataBackend:  getEnv("WATERLOG_BACKEND", BackendJSON),
		JSONPath:     getEnv("WATERLOG_JSON_PATH", "water_log.json"),
		SQLiteDBPath: getEnv("WATERLOG_SQLITE_PATH", "./data/waterlog.db"),

		DailyGoal:  getEnvInt("WATERLOG_DAILY_GOAL", DefaultDailyGoal),
		BarHeight:  getEnvInt("WATERLOG_BAR_HEIGHT", DefaultBarHeight),
		WindowDays: getEnvInt("WATERLOG_WINDOW_DAYS", DefaultWindowDays),

		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{BackendJSON, BackendSQLite, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendJSON:
		if strings.TrimSpace(c.JSONPath) == "" {
			errors = append(errors, "JSON log path cannot be empty when using json backend")
		} else if err := ensureDir(c.JSONPath); err != nil {
			errors = append(errors, err.Error())
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if c.DailyGoal <= 0 {
		errors = append(errors, fmt.Sprintf("invalid daily goal %d: must be greater than 0 ml", c.DailyGoal))
	}

	if c.BarHeight < 1 || c.BarHeight > maxBarHeight {
		errors = append(errors, fmt.Sprintf("invalid bar height %d: must be between 1 and %d", c.BarHeight, maxBarHeight))
	}

	if c.WindowDays < 1 || c.WindowDays > maxWindowDays {
		errors = append(errors, fmt.Sprintf("invalid window %d: must be between 1 and %d days", c.WindowDays, maxWindowDays))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ensureDir makes sure the parent directory of path exists or can be created.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create data directory '%s': %v", dir, err)
		}
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
