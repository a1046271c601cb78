package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Auth       AuthConfig
	Escalation EscalationConfig
	ML         MLConfig
	Storage    StorageConfig
	Notify     NotifyConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// AuthConfig holds JWT signing configuration
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// EscalationConfig holds the overdue policy and sweep cadence.
// SLAHours is the single authoritative overdue threshold: a complaint still
// PENDING and not yet escalated after this many hours is escalated
// automatically by the next sweep.
type EscalationConfig struct {
	SLAHours              int // ESCALATION_SLA_HOURS (default 72)
	WorkerIntervalSeconds int // ESCALATION_WORKER_INTERVAL_SECONDS (default 3600)
}

// MLConfig holds the enrichment service endpoint
type MLConfig struct {
	ServiceURL     string // ML_SERVICE_URL
	TimeoutSeconds int    // ML_TIMEOUT_SECONDS
}

// StorageConfig holds complaint image storage settings
type StorageConfig struct {
	UploadDir     string // UPLOAD_DIR: directory for stored complaint images
	PublicBaseURL string // UPLOAD_BASE_URL: URL prefix returned for stored images
}

// NotifyConfig holds outbound delivery channel settings.
// An empty API key turns the corresponding channel into a logged no-op.
type NotifyConfig struct {
	EmailAPIURL           string
	EmailAPIKey           string
	EmailFrom             string
	SMSAPIURL             string
	SMSAPIKey             string
	ChannelTimeoutSeconds int // per-channel delivery attempt bound
	QueueSize             int // dispatch queue capacity
	Workers               int // dispatch worker goroutines
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "emysore"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")), // PORT for Render/fly.io; SERVER_PORT for custom
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		},
		Escalation: EscalationConfig{
			SLAHours:              getEnvInt("ESCALATION_SLA_HOURS", 72),
			WorkerIntervalSeconds: getEnvInt("ESCALATION_WORKER_INTERVAL_SECONDS", 3600),
		},
		ML: MLConfig{
			ServiceURL:     getEnv("ML_SERVICE_URL", "http://localhost:8000"),
			TimeoutSeconds: getEnvInt("ML_TIMEOUT_SECONDS", 5),
		},
		Storage: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			PublicBaseURL: getEnv("UPLOAD_BASE_URL", "/uploads"),
		},
		Notify: NotifyConfig{
			EmailAPIURL:           getEnv("EMAIL_API_URL", "https://api.sendgrid.com/v3/mail/send"),
			EmailAPIKey:           os.Getenv("EMAIL_API_KEY"),
			EmailFrom:             getEnv("EMAIL_FROM", "noreply@emysore.in"),
			SMSAPIURL:             getEnv("SMS_API_URL", "http://localhost:8081/sms"),
			SMSAPIKey:             os.Getenv("SMS_API_KEY"),
			ChannelTimeoutSeconds: getEnvInt("NOTIFY_CHANNEL_TIMEOUT_SECONDS", 10),
			QueueSize:             getEnvInt("NOTIFY_QUEUE_SIZE", 256),
			Workers:               getEnvInt("NOTIFY_WORKERS", 4),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
