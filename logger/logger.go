package logger

import (
	"cayo/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger. With cfg.File set, records are also written
// to a rotating JSON file.
func New(serviceName, env string, cfg config.Log) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if env == "local" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zcfg.Level
	if cfg.Level != "" {
		if lvl, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
			level = lvl
			zcfg.Level = lvl
		}
	}

	opts := []zap.Option{
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	}
	if cfg.File != "" {
		rotating := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zcfg.EncoderConfig),
			rotating,
			level,
		)
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	return zcfg.Build(opts...)
}
