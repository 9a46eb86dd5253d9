package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MiNam8/PastebinClone/internal/model"
	"github.com/MiNam8/PastebinClone/internal/service"
)

type textRepository struct {
	sql *sql.DB
}

func NewTextRepository(sqlDB *sql.DB) service.TextRepository {
	return &textRepository{sql: sqlDB}
}

// Create inserts the record inside its own transaction. The insert is the
// commit point of text creation: once it lands, the reserved hash token is
// permanently bound to the record.
func (r *textRepository) Create(ctx context.Context, record *model.TextRecord) error {
	tx, err := r.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const query = `
		INSERT INTO texts (id, location, hash_value, expiration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query,
		record.ID,
		record.Location,
		record.HashValue,
		record.ExpirationDate,
		record.CreatedAt,
		record.UpdatedAt,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert text record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit text record: %w", err)
	}
	return nil
}

func (r *textRepository) GetByHash(ctx context.Context, hash string) (*model.TextRecord, error) {
	const query = `
		SELECT id, location, hash_value, expiration_date, created_at, updated_at
		FROM texts
		WHERE hash_value = $1
	`
	return r.scanRecord(ctx, query, hash)
}

// GetActiveByHash skips records past their expiration date; the cleanup job
// removes them for good later.
func (r *textRepository) GetActiveByHash(ctx context.Context, hash string) (*model.TextRecord, error) {
	const query = `
		SELECT id, location, hash_value, expiration_date, created_at, updated_at
		FROM texts
		WHERE hash_value = $1
		  AND (expiration_date IS NULL OR expiration_date > now())
	`
	return r.scanRecord(ctx, query, hash)
}

func (r *textRepository) scanRecord(ctx context.Context, query string, args ...any) (*model.TextRecord, error) {
	var (
		record     model.TextRecord
		expiration sql.NullTime
	)
	err := scanSingleRow(ctx, r.sql, query, args,
		&record.ID,
		&record.Location,
		&record.HashValue,
		&expiration,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query text record: %w", err)
	}
	if expiration.Valid {
		t := expiration.Time
		record.ExpirationDate = &t
	}
	return &record, nil
}

func (r *textRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		DELETE FROM texts
		WHERE expiration_date IS NOT NULL AND expiration_date <= $1
	`
	res, err := r.sql.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired texts: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired texts rows affected: %w", err)
	}
	return removed, nil
}
