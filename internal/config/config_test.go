package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "opsdesk.db", cfg.DatabaseURL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "08:00", cfg.ReminderTime)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("CRON_SECRET", " topsecret ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "topsecret", cfg.CronSecret)
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("SESSION_TTL_HOURS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
}
