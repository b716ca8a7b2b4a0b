package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cozinhai/internal/config"
	"cozinhai/internal/repository"
	"cozinhai/internal/repository/mongostore"
	"cozinhai/internal/repository/sqlstore"
)

// OpenStore connects the configured backend and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, error) {
	log := logger.WithField("driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store, err := mongostore.New(ctx, client, cfg.MongoDatabase, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("document store ready")
		return store, nil

	case config.DriverMySQL, config.DriverSQLite:
		gormDB, err := openGorm(cfg, logger)
		if err != nil {
			return nil, err
		}
		store := sqlstore.New(gormDB)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info("relational store ready")
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openGorm(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	if cfg.StoreDriver == config.DriverMySQL {
		return NewMySQL(cfg.MySQLDSN, logger)
	}
	return NewSQLite(cfg.SQLitePath, logger)
}
