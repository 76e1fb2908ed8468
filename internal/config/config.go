package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// The single schedule owner. Every availability rule and appointment
	// belongs to this id; the JWT middleware gates owner-only routes on it.
	OwnerID    string
	OwnerName  string
	OwnerEmail string
	JWTSecret  string

	// SendGrid email configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Video-meeting provider (Zoom-style server-to-server OAuth)
	MeetingBaseURL      string
	MeetingAccountID    string
	MeetingClientID     string
	MeetingClientSecret string

	// Calendar provider
	CalendarBaseURL      string
	CalendarID           string
	CalendarClientID     string
	CalendarClientSecret string
	CalendarRefreshToken string

	RateLimitPerSecond float64
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		OwnerID:    getEnv("OWNER_ID", "owner"),
		OwnerName:  getEnv("OWNER_NAME", "Lessonbook"),
		OwnerEmail: getEnv("OWNER_EMAIL", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Lessonbook"),

		MeetingBaseURL:      getEnv("MEETING_BASE_URL", "https://api.zoom.us/v2"),
		MeetingAccountID:    getEnv("MEETING_ACCOUNT_ID", ""),
		MeetingClientID:     getEnv("MEETING_CLIENT_ID", ""),
		MeetingClientSecret: getEnv("MEETING_CLIENT_SECRET", ""),

		CalendarBaseURL:      getEnv("CALENDAR_BASE_URL", "https://www.googleapis.com/calendar/v3"),
		CalendarID:           getEnv("CALENDAR_ID", "primary"),
		CalendarClientID:     getEnv("CALENDAR_CLIENT_ID", ""),
		CalendarClientSecret: getEnv("CALENDAR_CLIENT_SECRET", ""),
		CalendarRefreshToken: getEnv("CALENDAR_REFRESH_TOKEN", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
