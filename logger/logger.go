package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"drawAuditor/config"
)

// New returns a console logger for local runs and a JSON logger otherwise.
func New(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch env {
	case config.EnvLocal, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case config.EnvDev:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Nop discards everything. Used by tests and as a nil-safe default.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
