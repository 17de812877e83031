// FILE: lixenwraith/asynclog/builder_test.go
package asynclog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "built.log")

		logger, err := NewBuilder().
			Destination(logPath).
			LevelString("debug").
			Format("json").
			FlushInterval(250 * time.Millisecond).
			ConsoleTarget("stderr").
			TimestampFormat(time.RFC3339).
			Sanitization("json").
			HeartbeatIntervalS(60).
			InternalErrorsToStderr(false).
			Build()

		if logger != nil {
			defer logger.Shutdown()
		}

		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger)

		cfg := logger.GetConfig()
		assert.Equal(t, LevelDebug, cfg.Level)
		assert.Equal(t, logPath, cfg.Destination)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, int64(250), cfg.FlushIntervalMs)
		assert.Equal(t, "stderr", cfg.ConsoleTarget)
		assert.Equal(t, time.RFC3339, cfg.TimestampFormat)
		assert.Equal(t, "json", cfg.Sanitization)
		assert.Equal(t, int64(60), cfg.HeartbeatIntervalS)
		assert.False(t, cfg.InternalErrorsToStderr)

		assert.Equal(t, logPath, logger.Stats().Destination, "destination opened at construction")
		assert.False(t, logger.Stats().Running, "Build does not start the worker")
	})

	t.Run("invalid level string", func(t *testing.T) {
		logger, err := NewBuilder().LevelString("verbose").Build()
		assert.Nil(t, logger)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("invalid numeric level", func(t *testing.T) {
		logger, err := NewBuilder().Level(10).Build()
		assert.Nil(t, logger)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "level", cfgErr.Field)
		assert.Equal(t, int64(10), cfgErr.Value)
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := NewBuilder().
			LevelString("loud").
			Override("format=json").
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})

	t.Run("override", func(t *testing.T) {
		cfg, err := NewBuilder().
			Override("level=error", "flush_interval_ms=5").
			Config()
		require.NoError(t, err)
		assert.Equal(t, LevelError, cfg.Level)
		assert.Equal(t, int64(5), cfg.FlushIntervalMs)
	})

	t.Run("invalid override", func(t *testing.T) {
		_, err := NewBuilder().Override("nope=1").Config()
		assert.Error(t, err)
	})
}
