package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("PN_STAGE sets fallback stage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PN_STAGE", "8")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 8, cfg.Stage)
	})

	t.Run("non-numeric PN_MAX_CHANGES is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PN_MAX_CHANGES", "lots")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultMaxChanges, cfg.MaxChanges)
	})

	t.Run("PN_CHAINED_OPERATORS accepts bool strings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PN_CHAINED_OPERATORS", "true")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.True(t, cfg.AllowChainedOperators)
	})

	t.Run("PN_LOG_LEVEL is lowercased", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PN_LOG_LEVEL", "DEBUG")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("NO_COLOR disables color", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NO_COLOR", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Output.Color)
	})

	t.Run("PN_BATTERY_PARALLEL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PN_BATTERY_PARALLEL", "16")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 16, cfg.Battery.Parallel)
	})
}
