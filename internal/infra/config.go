package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	MigrationsDir string

	MeetingBaseURL string
	FrontendURL    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool

	StorageBasePath string
	GeoIPDBPath     string

	CORSAllowedOrigins []string
	RateLimitPerMin    int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		MeetingBaseURL: getEnv("MEETING_BASE_URL", "https://meet.mentorhood.com"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("EMAIL_USER"),
		SMTPPassword: os.Getenv("EMAIL_APP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", os.Getenv("EMAIL_USER")),

		S3Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
		S3AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		S3SecretKey: os.Getenv("AWS_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:    getEnvBool("S3_USE_SSL", true),

		StorageBasePath: getEnv("STORAGE_BASE_PATH", "data/uploads"),
		GeoIPDBPath:     os.Getenv("GEOIP_DB_PATH"),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// SMTPConfigured reports whether outbound email can be attempted at all.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != ""
}

// S3Configured reports whether object storage credentials are present.
func (c *Config) S3Configured() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
