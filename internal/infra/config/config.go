package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// Defaults for everything the firmware compiles in. Each can be overridden by an environment variable.
const (
	DefaultNTPServer      = "pool.ntp.org"
	DefaultNTPTimeout     = 1 * time.Second
	DefaultNTPRetries     = 3
	DefaultLinkProbeAddr  = "api.telegram.org:443"
	DefaultLinkTimeout    = 30 * time.Second
	DefaultTelegramAPIURL = "https://api.telegram.org"
	DefaultStateDriver    = StateDriverMemory
)

// State drivers.
const (
	StateDriverMemory   = "memory"
	StateDriverSQLite   = "sqlite3"
	StateDriverPostgres = "postgres"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken  string
	TelegramChatID int64
	TelegramAPIURL string

	NTPServer  string
	NTPTZHours int // Added to the NTP time, the RTC keeps local time
	NTPTimeout time.Duration
	NTPRetries int

	LinkProbeAddr string
	LinkTimeout   time.Duration

	StateDriver string
	DatabaseURL string // Only for sqlite3 and postgres

	LogLevel    string
	Environment string
}

// TZOffset returns the timezone offset as a duration.
func (c *AppConfig) TZOffset() time.Duration {
	return time.Duration(c.NTPTZHours) * time.Hour
}

// Load reads configuration from environment variables and the given .env files
// (".env" when none is given). Missing files are ignored.
// godotenv.Load will not override existing env variables.
func Load(envFiles ...string) (*AppConfig, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.TelegramAPIURL = strings.TrimRight(getEnv("TELEGRAM_API_URL", DefaultTelegramAPIURL), "/")

	cfg.NTPServer = getEnv("NTP_SERVER", DefaultNTPServer)
	if cfg.NTPTZHours, err = getInt("NTP_TZ_HOURS", 0); err != nil {
		return nil, err
	}
	if cfg.NTPTZHours < -12 || cfg.NTPTZHours > 14 {
		return nil, fmt.Errorf("invalid NTP_TZ_HOURS: %d is not a timezone", cfg.NTPTZHours)
	}
	if cfg.NTPTimeout, err = getDuration("NTP_TIMEOUT", DefaultNTPTimeout); err != nil {
		return nil, err
	}
	if cfg.NTPRetries, err = getInt("NTP_RETRIES", DefaultNTPRetries); err != nil {
		return nil, err
	}
	if cfg.NTPRetries < 0 {
		return nil, fmt.Errorf("invalid NTP_RETRIES: must not be negative")
	}

	cfg.LinkProbeAddr = getEnv("LINK_PROBE_ADDR", DefaultLinkProbeAddr)
	if cfg.LinkTimeout, err = getDuration("LINK_TIMEOUT", DefaultLinkTimeout); err != nil {
		return nil, err
	}

	cfg.StateDriver = strings.ToLower(getEnv("STATE_DRIVER", DefaultStateDriver))
	switch cfg.StateDriver {
	case StateDriverMemory:
	case StateDriverSQLite, StateDriverPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set (required for STATE_DRIVER=%s)", cfg.StateDriver)
		}
	default:
		return nil, fmt.Errorf("invalid STATE_DRIVER %q: must be one of memory, sqlite3, postgres", cfg.StateDriver)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
