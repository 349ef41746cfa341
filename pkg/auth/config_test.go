package auth

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallframe/wallframe-core/internal/testutil"
	"github.com/wallframe/wallframe-core/internal/testutil/fixtures"
	"github.com/wallframe/wallframe-core/pkg/config"
	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// ===========================================================================
// Secret Tests
// ===========================================================================

// TestSecret_Redaction verifies that a Secret never leaks through
// string formatting or serialization.
func TestSecret_Redaction(t *testing.T) {
	t.Parallel()
	s := Secret("super-sensitive-signing-key")

	assert.Equal(t, secretRedacted, s.String())
	assert.Equal(t, secretRedacted, s.GoString())
	assert.Equal(t, secretRedacted, fmt.Sprintf("%v", s))
	assert.Equal(t, secretRedacted, fmt.Sprintf("%#v", s))
	assert.Equal(t, "super-sensitive-signing-key", s.Value())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-sensitive")
}

// ===========================================================================
// Config Tests
// ===========================================================================

// TestDefaultConfig verifies the production defaults.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	assert.Equal(t, time.Hour, cfg.TokenLifetime)
	assert.Equal(t, 15*time.Minute, cfg.RateWindow)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 5, cfg.AttemptThreshold)
	assert.Equal(t, 30*time.Minute, cfg.AttemptResetInterval)
	assert.Empty(t, cfg.SigningKey.Value())
}

// TestConfig_Validate verifies each structural requirement.
func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		cfg := DefaultConfig()
		cfg.SigningKey = Secret(fixtures.SigningKey)
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short_signing_key", func(c *Config) { c.SigningKey = "short" }},
		{"empty_signing_key", func(c *Config) { c.SigningKey = "" }},
		{"zero_token_lifetime", func(c *Config) { c.TokenLifetime = 0 }},
		{"negative_rate_window", func(c *Config) { c.RateWindow = -time.Minute }},
		{"zero_rate_limit", func(c *Config) { c.RateLimit = 0 }},
		{"zero_attempt_threshold", func(c *Config) { c.AttemptThreshold = 0 }},
		{"zero_reset_interval", func(c *Config) { c.AttemptResetInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			testutil.RequireErrorCode(t, cfg.Validate(), wferr.CodeValidation)
		})
	}
}

// TestConfig_LoadFromEnv verifies loading through the layered config
// loader with the AUTH prefix: env values override tag defaults and the
// Validate hook runs.
func TestConfig_LoadFromEnv(t *testing.T) {
	testutil.SetEnv(t, "AUTH_SIGNING_KEY", fixtures.SigningKey)
	testutil.SetEnv(t, "AUTH_RATE_LIMIT", "25")
	testutil.SetEnv(t, "AUTH_ATTEMPT_RESET_INTERVAL", "10m")

	var cfg Config
	require.NoError(t, config.New().WithEnvPrefix("AUTH").Load(&cfg))

	assert.Equal(t, fixtures.SigningKey, cfg.SigningKey.Value())
	assert.Equal(t, 25, cfg.RateLimit)
	assert.Equal(t, 10*time.Minute, cfg.AttemptResetInterval)

	// Untouched fields keep their tag defaults.
	assert.Equal(t, time.Hour, cfg.TokenLifetime)
	assert.Equal(t, 15*time.Minute, cfg.RateWindow)
	assert.Equal(t, 5, cfg.AttemptThreshold)
}

// TestConfig_LoadFromEnv_WeakKey verifies that the loader surfaces the
// Validate failure for a weak signing key.
func TestConfig_LoadFromEnv_WeakKey(t *testing.T) {
	testutil.SetEnv(t, "AUTH_SIGNING_KEY", "weak")

	var cfg Config
	err := config.New().WithEnvPrefix("AUTH").Load(&cfg)
	testutil.RequireErrorCode(t, err, wferr.CodeValidation)
}

// TestConfig_LoadFromEnv_MissingKey verifies that the required tag
// rejects a configuration without a signing key.
func TestConfig_LoadFromEnv_MissingKey(t *testing.T) {
	testutil.UnsetEnv(t, "AUTH_SIGNING_KEY")

	var cfg Config
	err := config.New().WithEnvPrefix("AUTH").Load(&cfg)
	require.Error(t, err)
}
