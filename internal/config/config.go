package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions and one-time codes
	SessionTTL    time.Duration
	OTPTTL        time.Duration
	ResetTokenTTL time.Duration

	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFromName  string
	SMTPFromEmail string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Server
	Port        string
	CORSOrigins string
	FrontendURL string
	AppEnv      string
}

func Load() *Config {
	// Same behavior as dotenv: a missing .env file is not an error.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "inventory_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionTTL:    parseDuration(getEnv("SESSION_TTL", "168h"), 168*time.Hour),
		OTPTTL:        parseDuration(getEnv("OTP_TTL", "10m"), 10*time.Minute),
		ResetTokenTTL: parseDuration(getEnv("RESET_TOKEN_TTL", "15m"), 15*time.Minute),

		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Inventory Management System"),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3001/api/auth/callback/google"),

		Port:        getEnv("PORT", "3001"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

// DevMode reports whether raw OTP codes may be echoed in responses.
// Mirrors the mail fallback: no SMTP account configured means there is
// no way to deliver codes, so development behavior applies.
func (c *Config) DevMode() bool {
	return c.AppEnv == "development" || c.SMTPUser == ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
