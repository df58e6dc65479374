package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"socialplay/internal/config"
)

// Connect opens the single-file SQLite store, creating its directory if needed.
// The returned pool is shared by every repository.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000"

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Connected to database %s", cfg.DBPath)
	return db, nil
}

// Reset deletes the database file and recreates the schema from scratch.
func Reset(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		err := os.Remove(cfg.DBPath + suffix)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove %s: %w", cfg.DBPath+suffix, err)
		}
	}
	log.Printf("Removed database file %s", cfg.DBPath)

	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
