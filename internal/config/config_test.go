package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVICES", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Server.Environment)
	assert.NotEmpty(t, cfg.Server.JWTSecret)
	assert.Equal(t, []string{"all"}, cfg.Server.Services)
	assert.Equal(t, 10*1024, cfg.Server.BodyLimit)
	assert.Equal(t, DefaultUSDToKSH, cfg.Rates.USDToKSH)
	assert.Equal(t, 5*time.Minute, cfg.Rates.CacheTTL)
	assert.Equal(t, RateLimitWindow, cfg.Limits.Window)
	assert.Equal(t, 8, cfg.Limits.AuthMax)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICES", " Auth, wallet ,,")
	t.Setenv("USD_TO_KSH", "130.5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_AUTH", "not-a-number")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"auth", "wallet"}, cfg.Server.Services)
	assert.Equal(t, 130.5, cfg.Rates.USDToKSH)
	assert.Equal(t, time.Minute, cfg.Limits.Window)
	assert.Equal(t, 8, cfg.Limits.AuthMax)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestServerRuns(t *testing.T) {
	s := ServerConfig{Services: []string{"auth", "wallet"}}
	assert.True(t, s.Runs("auth"))
	assert.False(t, s.Runs("admin"))

	s.Services = []string{"all"}
	assert.True(t, s.Runs("admin"))
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}

func TestOptionalIntegrations(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.Equal(t, "cache:6379", RedisConfig{Host: "cache", Port: "6379"}.Addr())
	assert.False(t, TelegramConfig{BotToken: "x"}.Enabled())
	assert.True(t, TelegramConfig{BotToken: "x", AdminChatID: 42}.Enabled())
}
