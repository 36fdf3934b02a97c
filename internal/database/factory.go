package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gameshelf/internal/config"
	"gameshelf/internal/shelf"
)

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// The "disabled" type returns a nil Database: the repository then behaves as
// if local storage were unavailable.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = filepath.Join(cfg.DataDir, "shelf.db")
	case "memory":
		path = ":memory:"
	case "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

// AsShelfDatabase converts db to the interface, keeping a nil pointer nil.
func AsShelfDatabase(db *SQLiteDatabase) shelf.Database {
	if db == nil {
		return nil
	}
	return db
}
