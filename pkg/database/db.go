package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Pool wraps the SQL connection pool with sane limits applied.
type Pool struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL from a URL-style connection string and
// verifies the connection before returning.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected")
	return &Pool{db: db, logger: logger}, nil
}

// DB returns the underlying *sql.DB for repositories.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Ping checks connectivity
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the pool
func (p *Pool) Close() error {
	return p.db.Close()
}
