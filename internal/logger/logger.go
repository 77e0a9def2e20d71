// Package logger wraps a process-wide zap sugared logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger for the given environment: JSON with a
// service field in production, human-readable console otherwise, and
// discarded entirely under "test" so suites stay quiet.
func Init(env string) {
	once.Do(func() {
		sugar = build(env).Sugar()
	})
}

func build(env string) *zap.Logger {
	switch env {
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		base, err := cfg.Build(zap.Fields(zap.String("service", "hiseb")))
		if err != nil {
			return zap.NewNop()
		}
		return base
	case "test":
		return zap.NewNop()
	default:
		base, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return base
	}
}

// Get returns the global sugared logger, initializing a development one
// when Init was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Called once on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
