package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide logger. Console encoding for interactive use,
// JSON when prod is set (what log shippers expect).
func New(prod bool) *zap.SugaredLogger {
	var cfg zap.Config
	if prod {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		// Logger construction only fails on a bad config; fall back to no-op
		// rather than take the process down before main has started.
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
