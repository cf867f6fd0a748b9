package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "qa_board", cfg.Mongo.Database)
	assert.Equal(t, time.Hour, cfg.Redis.ViewWindow)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.Equal(t, 256, cfg.Notify.QueueSize)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"ENV":            "production",
		"TOKEN_TTL":      "2h",
		"COOKIE_SECURE":  "true",
		"ADMIN_EMAILS":   "root@example.com,ops@example.com",
		"NOTIFY_WORKERS": "8",
		"VIEW_WINDOW":    "30m",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 8, cfg.Notify.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Redis.ViewWindow)
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}
