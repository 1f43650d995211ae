package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	DataBackend  string
	DataDir      string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Identity
	UserHeader  string
	DefaultUser string

	// Bill reminders
	ReminderInterval time.Duration
	ReminderWindow   time.Duration

	// Rate limiting
	RequestsPerMinute int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kassa.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "kassa"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_export"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transaktioner"),

		UserHeader:  getEnv("USER_HEADER", "X-User-Email"),
		DefaultUser: getEnv("DEFAULT_USER", ""),

		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", 6*time.Hour),
		ReminderWindow:   getEnvDuration("REMINDER_WINDOW", 72*time.Hour),

		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 60),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"file", "sqlite"}
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

	if c.DataBackend == "file" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using file backend")
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReminderInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid reminder interval %v: must be at least 1 minute", c.ReminderInterval))
	}
	if c.ReminderWindow < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid reminder window %v: must be at least 1 hour", c.ReminderWindow))
	}

	if c.RequestsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid requests per minute %d: must be at least 1", c.RequestsPerMinute))
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
