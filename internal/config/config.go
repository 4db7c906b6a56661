package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// ReminderTime is the daily dispatch time as HH:MM; empty disables the
	// built-in schedule (the HTTP trigger still works).
	ReminderTime string
	// CronSecret lets an external scheduler hit the reminder trigger
	// without a session.
	CronSecret string

	SessionTTL time.Duration

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load reads configuration from the environment (and .env if present) with
// sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:               envOr("HTTP_ADDR", ":8080"),
		DatabaseURL:            envOr("DATABASE_URL", "opsdesk.db"),
		SMTPHost:               strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:               envInt("SMTP_PORT", 587),
		SMTPUser:               strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPassword:           strings.TrimSpace(os.Getenv("SMTP_PASSWORD")),
		SMTPFrom:               strings.TrimSpace(os.Getenv("SMTP_FROM_EMAIL")),
		ReminderTime:           envOr("REMINDER_TIME", "08:00"),
		CronSecret:             strings.TrimSpace(os.Getenv("CRON_SECRET")),
		SessionTTL:             time.Duration(envInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		BootstrapAdminEmail:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
