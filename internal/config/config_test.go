package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "Europe/Amsterdam", cfg.DisplayTimezone)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)

	// demo credential set mirrors two seeded accounts
	require.Len(t, cfg.SeedUsers, 2)
	assert.Equal(t, "alice", cfg.SeedUsers[0].Username)
	assert.Equal(t, "admin", cfg.SeedUsers[0].Role)
	assert.Equal(t, "bob", cfg.SeedUsers[1].Username)
	assert.Equal(t, "student", cfg.SeedUsers[1].Role)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("DISPLAY_TZ", "UTC")

	cfg := config.Load()
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Equal(t, "UTC", cfg.DisplayTimezone)
}

func TestLoadAllowedOrigins(t *testing.T) {
	cfg := config.Load()
	assert.Empty(t, cfg.AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", "https://planner.school.nl, https://beta.school.nl ,")
	cfg = config.Load()
	assert.Equal(t, []string{"https://planner.school.nl", "https://beta.school.nl"}, cfg.AllowedOrigins)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")

	cfg := config.Load()
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestSeedUsersFromEnv(t *testing.T) {
	t.Setenv("SEED_USERS", `[{"username":"carol","name":"Carol","role":"student","class":"3B","password_hash":"$2b$12$x"}]`)

	cfg := config.Load()
	require.Len(t, cfg.SeedUsers, 1)
	assert.Equal(t, "carol", cfg.SeedUsers[0].Username)
	assert.Equal(t, "3B", cfg.SeedUsers[0].Class)
}

func TestSeedUsersBadJSONFallsBack(t *testing.T) {
	t.Setenv("SEED_USERS", `not json`)

	cfg := config.Load()
	require.Len(t, cfg.SeedUsers, 2)
	assert.Equal(t, "alice", cfg.SeedUsers[0].Username)
}
