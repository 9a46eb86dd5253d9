package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	_ "github.com/lib/pq"
)

// sqlExecutor abstracts *sql.DB and *sql.Tx so repository queries run the
// same way inside and outside a transaction.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanSingleRow(ctx context.Context, ex sqlExecutor, query string, args []any, dest ...any) error {
	return ex.QueryRowContext(ctx, query, args...).Scan(dest...)
}

// NewPostgresDB opens the relational store holding text records.
func NewPostgresDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTimeMinutes) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the texts table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS texts (
			id UUID PRIMARY KEY,
			location TEXT NOT NULL,
			hash_value TEXT NOT NULL UNIQUE,
			expiration_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_texts_expiration_date
			ON texts (expiration_date) WHERE expiration_date IS NOT NULL;
	`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure texts schema: %w", err)
	}
	return nil
}
