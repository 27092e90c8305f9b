package obs

import (
	"RemindBot/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from cfg. The returned level is live:
// the metrics server exposes it on /loglevel.
func NewLogger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Log.Level))

	zc := zap.NewProductionConfig()
	if cfg.Log.Pretty {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = level
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	l, err := zc.Build(zap.Fields(
		zap.String("service", "remindbot"),
		zap.String("version", cfg.Version),
		zap.String("store", cfg.Store.Backend),
	))
	if err != nil {
		return nil, level, err
	}
	return l, level, nil
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.Set(s); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
