// Package config handles application configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/vkatariya/readstack/internal/selection"
)

// CredentialVar is the environment variable the delivery collaborator
// reads its SMTP password from. Its absence is a configuration error
// surfaced before the collaborator is invoked.
const CredentialVar = "GMAIL_APP_PASSWORD"

// Config holds all configuration values.
type Config struct {
	// Collections
	InboxDir   string
	ArchiveDir string
	OutputDir  string

	// Selection
	TargetWords int

	// Delivery
	SMTPRelay    string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddr     string
	KindleAddr   string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	targetWords, err := getEnvInt("READSTACK_TARGET_WORDS", selection.DefaultTargetWords)
	if err != nil {
		return Config{}, err
	}
	smtpPort, err := getEnvInt("READSTACK_SMTP_PORT", 587)
	if err != nil {
		return Config{}, err
	}

	return Config{
		InboxDir:   getEnv("READSTACK_INBOX", "./Inbox"),
		ArchiveDir: getEnv("READSTACK_ARCHIVE", "./Archive"),
		OutputDir:  getEnv("READSTACK_OUTPUT", "."),

		TargetWords: targetWords,

		SMTPRelay:    getEnv("READSTACK_SMTP_RELAY", "smtp.gmail.com"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("READSTACK_SMTP_USER"),
		SMTPPassword: os.Getenv(CredentialVar),
		FromAddr:     getEnv("READSTACK_FROM", os.Getenv("READSTACK_SMTP_USER")),
		KindleAddr:   os.Getenv("READSTACK_KINDLE_TO"),

		LogFile:  os.Getenv("READSTACK_LOG_FILE"),
		LogLevel: parseLogLevel(getEnv("READSTACK_LOG_LEVEL", "INFO")),
	}, nil
}

// ValidateDelivery checks everything the delivery collaborator needs.
// Called before any collaborator runs so a missing credential never
// aborts an export halfway.
func (c Config) ValidateDelivery() error {
	var missing []string
	if c.SMTPUser == "" {
		missing = append(missing, "READSTACK_SMTP_USER")
	}
	if c.KindleAddr == "" {
		missing = append(missing, "READSTACK_KINDLE_TO")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, CredentialVar)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing delivery configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, val, err)
	}
	return n, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
