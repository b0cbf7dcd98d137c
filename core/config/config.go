package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MiddlewareConfig controls request logging and CORS
type MiddlewareConfig struct {
	CORSEnabled    bool
	CORSOrigins    []string
	LoggingEnabled bool
	LoggingSkip    []string
	AuthEnabled    bool
	PublicPaths    []string
}

// IsLoggingRequired reports whether requests to path should be logged
func (m *MiddlewareConfig) IsLoggingRequired(path string) bool {
	if !m.LoggingEnabled {
		return false
	}
	for _, prefix := range m.LoggingSkip {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// IsPublic reports whether path may be served without a bearer token
func (m *MiddlewareConfig) IsPublic(path string) bool {
	for _, prefix := range m.PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Config holds all runtime configuration read from the environment
type Config struct {
	Env        string
	Version    string
	ServerPort string

	DBDriver string
	DBDSN    string
	DBPath   string

	JWTSecret string
	JWTTTL    time.Duration

	StorageProvider  string
	StoragePath      string
	StorageBaseURL   string
	StorageAPIKey    string
	StorageAPISecret string
	StorageAccountID string
	StorageEndpoint  string
	StorageBucket    string
	StorageRegion    string
	CDN              string

	EmailProvider       string
	EmailFrom           string
	EmailFromName       string
	SendGridAPIKey      string
	PostmarkServerToken string

	WebSocketEnabled bool

	SearchThreshold    float64
	SearchDefaultLimit int

	GoogleAPIKey     string
	GoogleCalendarID string

	CalendarSyncCron string
	ReminderCron     string
	DigestCron       string

	Middleware MiddlewareConfig
}

// NewConfig reads the configuration from environment variables, applying defaults
func NewConfig() *Config {
	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		Version:    getEnv("APP_VERSION", "1.0.0"),
		ServerPort: normalizePort(getEnv("SERVER_PORT", ":8100")),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", ""),
		DBPath:   getEnv("DB_PATH", "storage/intranet.db"),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		StoragePath:      getEnv("STORAGE_PATH", "storage"),
		StorageBaseURL:   getEnv("STORAGE_BASE_URL", "/storage"),
		StorageAPIKey:    getEnv("STORAGE_API_KEY", ""),
		StorageAPISecret: getEnv("STORAGE_API_SECRET", ""),
		StorageAccountID: getEnv("STORAGE_ACCOUNT_ID", ""),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", ""),
		StorageRegion:    getEnv("STORAGE_REGION", ""),
		CDN:              getEnv("CDN", ""),

		EmailProvider:       strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
		EmailFrom:           getEnv("EMAIL_FROM", "portal@example.com"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Intranet Portal"),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		PostmarkServerToken: getEnv("POSTMARK_SERVER_TOKEN", ""),

		WebSocketEnabled: getEnvBool("WEBSOCKET_ENABLED", true),

		SearchThreshold:    getEnvFloat("SEARCH_THRESHOLD", 0.4),
		SearchDefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 20),

		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		GoogleCalendarID: getEnv("GOOGLE_CALENDAR_ID", ""),

		CalendarSyncCron: getEnv("CALENDAR_SYNC_CRON", "*/15 * * * *"),
		ReminderCron:     getEnv("REMINDER_CRON", "0 8 * * *"),
		DigestCron:       getEnv("DIGEST_CRON", "0 17 * * 1-5"),

		Middleware: MiddlewareConfig{
			CORSEnabled:    getEnvBool("CORS_ENABLED", true),
			CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			LoggingEnabled: getEnvBool("REQUEST_LOGGING", true),
			LoggingSkip:    []string{"/health", "/static", "/storage"},
			AuthEnabled:    getEnvBool("AUTH_ENABLED", true),
			PublicPaths:    []string{"/api/auth", "/health", "/swagger", "/static", "/storage"},
		},
	}
}

// Validate rejects configurations the application cannot run with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SearchThreshold < 0 || c.SearchThreshold > 1 {
		return fmt.Errorf("SEARCH_THRESHOLD must be within [0,1], got %v", c.SearchThreshold)
	}
	if c.SearchDefaultLimit <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_LIMIT must be positive, got %d", c.SearchDefaultLimit)
	}
	if c.Middleware.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
	}
	return nil
}

// CalendarSyncEnabled reports whether Google Calendar import is configured
func (c *Config) CalendarSyncEnabled() bool {
	return c.GoogleAPIKey != "" && c.GoogleCalendarID != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
