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

	assert.Equal(t, "8091", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 4*time.Hour, cfg.Macro.TTLTrading)
	assert.Equal(t, 12*time.Hour, cfg.Macro.TTLNonTrading)
	assert.Equal(t, "09:30", cfg.Macro.TradingOpen)
	assert.Equal(t, "16:00", cfg.Macro.TradingClose)
	assert.Equal(t, "America/New_York", cfg.Macro.Timezone)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "https://api.stlouisfed.org/fred", cfg.FRED.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("MACRO_TTL_TRADING", "2h")
	t.Setenv("MACRO_TTL_NON_TRADING", "6h")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("FRED_API_KEY", "abc123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 2*time.Hour, cfg.Macro.TTLTrading)
	assert.Equal(t, 6*time.Hour, cfg.Macro.TTLNonTrading)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "abc123", cfg.FRED.APIKey)
}

func TestLoadValidation(t *testing.T) {
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("ENV", "sandbox")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-trading TTL shorter than trading TTL", func(t *testing.T) {
		t.Setenv("MACRO_TTL_TRADING", "4h")
		t.Setenv("MACRO_TTL_NON_TRADING", "1h")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("MACRO_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90m")
	assert.Equal(t, 90*time.Minute, getEnvAsDuration("TEST_DURATION", "1h"))

	t.Setenv("TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))

	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION_UNSET", "1h"))
}
