package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears a variable for the test while keeping t.Setenv's cleanup.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DATABASE_DSN", "postgres://localhost/guildpulse_test")
	unsetenv(t, "LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "postgres://localhost/guildpulse_test", cfg.DatabaseDSN)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingToken(t *testing.T) {
	unsetenv(t, "DISCORD_TOKEN")
	t.Setenv("DATABASE_DSN", "postgres://localhost/guildpulse_test")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	unsetenv(t, "DATABASE_DSN")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_LogLevelOverride(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DATABASE_DSN", "postgres://localhost/guildpulse_test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
