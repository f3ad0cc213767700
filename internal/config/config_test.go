package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("MAILJET_API_KEY", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "senchambres_", cfg.PartitionPrefix)
	assert.False(t, cfg.MailjetEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("MAILJET_API_KEY", "pub")
	t.Setenv("MAILJET_SECRET_KEY", "priv")

	cfg := Load()
	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.MailjetEnabled())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PAGE_SIZE", "twelve")
	t.Setenv("SESSION_TTL", "forever")

	assert.Equal(t, 12, getEnvInt("PAGE_SIZE", 12))
	assert.Equal(t, time.Hour, getEnvDuration("SESSION_TTL", time.Hour))
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())

	cfg.LogLevel = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger().GetLevel())
}
