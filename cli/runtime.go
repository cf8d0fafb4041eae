package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"cayo/config"
	"cayo/database"
	"cayo/logger"
	"cayo/services/events"
	"cayo/services/throttle"
	"cayo/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// bootstrap loads .env (when present), the config and the logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, nil, err
	}
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// openStore returns the record store DB_DRIVER names and a func releasing it.
func openStore(cfg config.Database, log *zap.Logger) (store.Store, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn("using in-memory store, nothing will survive a restart")
		return store.NewMemory(nil), func() {}, nil
	}
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return database.NewStore(db), closeFn, nil
}

func newLimiter(ctx context.Context, cfg config.Config, log *zap.Logger) (throttle.Limiter, func()) {
	if cfg.RedisAddr == "" {
		return throttle.Noop{}, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rdb, err := throttle.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable, login throttle disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return throttle.Noop{}, func() {}
	}
	log.Info("login throttle enabled", zap.String("addr", cfg.RedisAddr), zap.Int("max_failures", cfg.LoginMaxFailures))
	return throttle.NewRedis(rdb, cfg.LoginMaxFailures, cfg.LoginLockout), func() { _ = rdb.Close() }
}

func newPublisher(cfg config.Config, log *zap.Logger) events.Publisher {
	if len(events.SplitBrokers(cfg.KafkaBrokers)) == 0 {
		return events.Noop{}
	}
	log.Info("publishing events", zap.String("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
}
