package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // zone database for NOTIFICATION_TIMEZONE
)

var (
	ErrRequiredEnvMissing = errors.New("required environment variable is not set")
	ErrInvalidValue       = errors.New("invalid configuration value")
)

const (
	DefaultNotificationHeader = "Google Drive Activity"
	DefaultActivityLookback   = 20 * time.Minute
	DefaultActivityPageSize   = 1
)

// Config holds all application configuration.
type Config struct {
	// Pipeline settings
	SlackWebhookURL      string
	DriveID              string
	ActivityLookback     time.Duration
	ActivityPageSize     int
	NotificationTimezone string
	NotificationHeader   string
	WebhookChannelToken  string

	// Credentials
	GoogleTokenPath string

	// Watch channel registry (toolbox only)
	FirestoreProjectID  string
	FirestoreDatabaseID string

	// Server settings
	Port                  string
	GinMode               string
	LogLevel              string
	ServerReadTimeout     time.Duration
	ServerWriteTimeout    time.Duration
	ServerShutdownTimeout time.Duration
}

// Load reads the server configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	required := []struct {
		name  string
		value string
	}{
		{"SLACK_WEBHOOK_URL", cfg.SlackWebhookURL},
		{"DRIVE_ID", cfg.DriveID},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrRequiredEnvMissing, r.name)
		}
	}

	return cfg, nil
}

// LoadToolbox reads configuration for the toolbox commands, which do not need
// the notification sink or a default drive.
func LoadToolbox() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := &Config{
		SlackWebhookURL:      os.Getenv("SLACK_WEBHOOK_URL"),
		DriveID:              os.Getenv("DRIVE_ID"),
		NotificationTimezone: getEnvDefault("NOTIFICATION_TIMEZONE", "UTC"),
		NotificationHeader:   getEnvDefault("NOTIFICATION_HEADER", DefaultNotificationHeader),
		WebhookChannelToken:  os.Getenv("WEBHOOK_CHANNEL_TOKEN"),
		GoogleTokenPath:      getEnvDefault("GOOGLE_TOKEN_PATH", "assets/auth/token.json"),
		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreDatabaseID:  getEnvDefault("FIRESTORE_DATABASE_ID", "(default)"),

		Port:     getEnvDefault("PORT", "8080"),
		GinMode:  getEnvDefault("GIN_MODE", "debug"),
		LogLevel: getEnvDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.ActivityLookback, err = getEnvDuration("ACTIVITY_LOOKBACK", DefaultActivityLookback); err != nil {
		return nil, err
	}
	if cfg.ActivityPageSize, err = getEnvInt("ACTIVITY_PAGE_SIZE", DefaultActivityPageSize); err != nil {
		return nil, err
	}
	if cfg.ServerReadTimeout, err = getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ServerWriteTimeout, err = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ServerShutdownTimeout, err = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that the loaded values are usable.
func (c *Config) validate() error {
	if c.GinMode != "debug" && c.GinMode != "release" && c.GinMode != "test" {
		return fmt.Errorf("%w: GIN_MODE %q (must be debug, release, or test)", ErrInvalidValue, c.GinMode)
	}

	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warn" && c.LogLevel != "error" {
		return fmt.Errorf("%w: LOG_LEVEL %q (must be debug, info, warn, or error)", ErrInvalidValue, c.LogLevel)
	}

	if _, err := time.LoadLocation(c.NotificationTimezone); err != nil {
		return fmt.Errorf("%w: NOTIFICATION_TIMEZONE %q: %w", ErrInvalidValue, c.NotificationTimezone, err)
	}

	if c.ActivityLookback <= 0 {
		return fmt.Errorf("%w: ACTIVITY_LOOKBACK must be positive", ErrInvalidValue)
	}
	if c.ActivityPageSize <= 0 {
		return fmt.Errorf("%w: ACTIVITY_PAGE_SIZE must be positive", ErrInvalidValue)
	}
	if c.ServerReadTimeout <= 0 {
		return fmt.Errorf("%w: SERVER_READ_TIMEOUT must be positive", ErrInvalidValue)
	}
	if c.ServerWriteTimeout <= 0 {
		return fmt.Errorf("%w: SERVER_WRITE_TIMEOUT must be positive", ErrInvalidValue)
	}
	if c.ServerShutdownTimeout <= 0 {
		return fmt.Errorf("%w: SERVER_SHUTDOWN_TIMEOUT must be positive", ErrInvalidValue)
	}
	return nil
}

// Location returns the time zone notifications are rendered in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.NotificationTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsRegistryEnabled reports whether the Firestore watch channel registry is configured.
func (c *Config) IsRegistryEnabled() bool {
	return c.FirestoreProjectID != ""
}

// getEnvDefault gets an environment variable with a default value.
func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: integer value for %s: %s", ErrInvalidValue, key, value)
	}
	return i, nil
}

// getEnvDuration gets a duration environment variable with a default value.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: duration value for %s: %s", ErrInvalidValue, key, value)
	}
	return d, nil
}
