package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tracker/internal/configstore/models"
	"tracker/internal/platform/postgres"
	"tracker/pkg/platform/sentinel"
	txcontext "tracker/pkg/platform/tx"
)

// PostgresStore persists configuration values in the config_entries table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, entry models.Entry) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO config_entries (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, entry.Key, entry.Value)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert config entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (models.Entry, error) {
	entry := models.Entry{Key: key}
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT value FROM config_entries WHERE key = $1`, key).Scan(&entry.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("get config entry: %w", err)
	}
	return entry, nil
}

// ListPrefix compares the leading bytes directly so LIKE wildcards in the
// prefix are matched literally. Byte-order collation keeps the sort aligned
// with the in-memory store.
func (s *PostgresStore) ListPrefix(ctx context.Context, prefix string) ([]models.Entry, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT key, value FROM config_entries
		WHERE left(key, length($1)) = $1
		ORDER BY key COLLATE "C"
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query config entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("scan config entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT key, value FROM config_entries`)
	if err != nil {
		return nil, fmt.Errorf("query config entries: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config entry: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config entries: %w", err)
	}
	return values, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM config_entries WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete config entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
