package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// NewSQLite opens (and creates if needed) the database file at path.
func NewSQLite(path string, logger *logrus.Logger) (*gorm.DB, error) {
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	// sqlite serializes writers; an in-memory db also lives on a single connection.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
