package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(message string, values ...any)
	Fatal(error error, values ...any)
	Printf(format string, args ...interface{})
}

func init() {
	_, err := NewLogger(configFromEnv(os.Getenv("LOG_ENV"), os.Getenv("LOG_LEVEL")))
	if err != nil {
		panic(err)
	}
}

// configFromEnv picks the zap preset for env and overrides its level when
// level is a valid zap level name.
func configFromEnv(env, level string) zap.Config {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if level = strings.TrimSpace(level); level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			config.Level = zap.NewAtomicLevelAt(l)
		}
	}
	return config
}

// SetLevel changes the level of the running logger, e.g. after config is loaded.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		Warn("ignoring unknown log level", "level", level)
		return
	}
	GetLogger().level.SetLevel(l)
}

func Info(msg string, values ...any) {
	GetLogger().Info(msg, values...)
}

func Warn(msg string, values ...any) {
	GetLogger().Warn(msg, values...)
}

func Error(msg string, values ...any) {
	GetLogger().Error(msg, values...)
}

func Debug(msg string, values ...any) {
	GetLogger().Debug(msg, values...)
}

func Panic(msg string, values ...any) {
	GetLogger().Panic(msg, values...)
}

func Fatal(error error, values ...any) {
	GetLogger().Fatal(error, values...)
}

func Sync() {
	_ = GetLogger().log.Sync()
}
