package database

import (
	"fmt"

	"cayo/config"
	"cayo/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the relational store named by cfg.Driver and migrates it
// when cfg.AutoMigrate is set.
func Connect(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.Path), gcfg)
		if err == nil {
			// one connection: writes serialize anyway and :memory: stays a single database
			if sqlDB, derr := db.DB(); derr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	log.Info("connected to database", zap.String("driver", cfg.Driver))

	if cfg.AutoMigrate {
		log.Info("starting auto-migration")
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("auto migration completed")
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Player{},
		&models.Transaction{},
		&models.Bet{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
