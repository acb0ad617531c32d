package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("development by default", func(t *testing.T) {
		c := configFromEnv("", "")
		assert.True(t, c.Development)
		assert.Equal(t, zapcore.DebugLevel, c.Level.Level())
	})

	t.Run("production preset", func(t *testing.T) {
		c := configFromEnv("production", "")
		assert.False(t, c.Development)
		assert.Equal(t, zapcore.InfoLevel, c.Level.Level())
	})

	t.Run("level override", func(t *testing.T) {
		c := configFromEnv("production", " WARN ")
		assert.Equal(t, zapcore.WarnLevel, c.Level.Level())
	})

	t.Run("unknown level keeps preset", func(t *testing.T) {
		c := configFromEnv("production", "loud")
		assert.Equal(t, zapcore.InfoLevel, c.Level.Level())
	})
}

func TestSetLevel(t *testing.T) {
	before := GetLogger().level.Level()
	t.Cleanup(func() { GetLogger().level.SetLevel(before) })

	SetLevel("error")
	assert.Equal(t, zapcore.ErrorLevel, GetLogger().level.Level())

	SetLevel("nope")
	assert.Equal(t, zapcore.ErrorLevel, GetLogger().level.Level())
}
