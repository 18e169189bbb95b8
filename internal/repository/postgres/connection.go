package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/config"
	"github.com/shopmirror/storesync/internal/repository"
)

// NewConnection opens a Postgres connection pool. The pool is created once
// at process start, injected where needed, and closed on shutdown.
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories wires every repository against one connection pool
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Store:          NewStoreRepository(db, logger),
		Integration:    NewIntegrationRepository(db, logger),
		SyncSettings:   NewSyncSettingsRepository(db, logger),
		SyncLog:        NewSyncLogRepository(db, logger),
		ProductMapping: NewProductMappingRepository(db, logger),
	}
}
