package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_PATH", "ADDR", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingSecret)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DB_PATH=/tmp/ledger-test.db\nJWT_SECRET=from-file\nTOKEN_TTL=90m\nLOG_FORMAT=json\n",
	), 0o600))

	// the process environment wins over the file
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger-test.db", cfg.DBPath)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBPath: "x.db", JWTSecret: "s", TokenTTL: -time.Second}
	assert.Error(t, cfg.Validate())

	cfg.TokenTTL = time.Minute
	cfg.DBPath = ""
	assert.Error(t, cfg.Validate())
}
