package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tracker/internal/dictionary/models"
	"tracker/internal/platform/postgres"
	"tracker/pkg/platform/sentinel"
	txcontext "tracker/pkg/platform/tx"
)

// PostgresStore persists entries in the data_dictionary table.
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

const selectColumns = `name, column_type, nullable, pii, description`

// Create inserts entry unless the name is taken. The insert and the existence
// check are one statement, so a concurrent loser sees ErrAlreadyExists.
func (s *PostgresStore) Create(ctx context.Context, entry models.Entry) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO data_dictionary (name, column_type, nullable, pii, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`, entry.Name, entry.Type, entry.Nullable.Ptr(), entry.PII.Ptr(), nullString(entry.Description))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert dictionary entry: %w", err)
	}
	return expectOneRow(res, sentinel.ErrAlreadyExists)
}

func (s *PostgresStore) Update(ctx context.Context, entry models.Entry) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE data_dictionary
		SET column_type = $2, nullable = $3, pii = $4, description = $5, updated_at = now()
		WHERE name = $1
	`, entry.Name, entry.Type, entry.Nullable.Ptr(), entry.PII.Ptr(), nullString(entry.Description))
	if err != nil {
		return fmt.Errorf("update dictionary entry: %w", err)
	}
	return expectOneRow(res, sentinel.ErrNotFound)
}

func (s *PostgresStore) Get(ctx context.Context, name string) (models.Entry, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM data_dictionary WHERE name = $1`, name)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("get dictionary entry: %w", err)
	}
	return entry, nil
}

// GetMany fetches every stored entry among names in one query.
func (s *PostgresStore) GetMany(ctx context.Context, names []string) (map[string]models.Entry, error) {
	found := make(map[string]models.Entry, len(names))
	if len(names) == 0 {
		return found, nil
	}
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM data_dictionary WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("query dictionary entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		found[entry.Name] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary entries: %w", err)
	}
	return found, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM data_dictionary ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query dictionary entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM data_dictionary WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete dictionary entry: %w", err)
	}
	return expectOneRow(res, sentinel.ErrNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.Entry, error) {
	var (
		entry       models.Entry
		nullable    sql.NullBool
		pii         sql.NullBool
		description sql.NullString
	)
	if err := row.Scan(&entry.Name, &entry.Type, &nullable, &pii, &description); err != nil {
		return models.Entry{}, err
	}
	entry.Nullable = fromNullBool(nullable)
	entry.PII = fromNullBool(pii)
	entry.Description = description.String
	return entry, nil
}

func fromNullBool(nb sql.NullBool) models.OptionalBool {
	if !nb.Valid {
		return models.OptionalBool{}
	}
	return models.Some(nb.Bool)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// expectOneRow maps a zero-row write to the given sentinel.
func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return none
	}
	return nil
}
