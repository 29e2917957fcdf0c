package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "subdesigner.db", cfg.DBPath)
	assert.Equal(t, 20.0, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUBDESIGNER_PORT", "8080")
	t.Setenv("SUBDESIGNER_RULES_DIR", "/etc/subdesigner/rules")
	t.Setenv("SUBDESIGNER_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/etc/subdesigner/rules", cfg.RulesDir)
	assert.Equal(t, 2.5, cfg.RateLimit)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SUBDESIGNER_PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SUBDESIGNER_PORT", "70000")
	_, err = Load()
	assert.ErrorContains(t, err, "out of range")
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: 3000, RateLimit: 1, RateBurst: 1}
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = Config{Port: 3000, RateLimit: 1, RateBurst: 0}
	assert.Error(t, cfg.Validate())
}
