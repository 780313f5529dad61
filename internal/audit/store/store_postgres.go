package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tracker/internal/audit"
	txcontext "tracker/pkg/platform/tx"
)

// PostgresStore appends audit messages to the audit_log table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, msg audit.Message) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_log (id, namespace, entity_type, entity_name, audit_type, username, event_time, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.New(),
		msg.EntityID.Namespace,
		msg.EntityID.Entity,
		msg.EntityID.Name,
		string(msg.Type),
		sql.NullString{String: msg.User, Valid: msg.User != ""},
		msg.EventTime(),
		sql.NullString{String: string(msg.Payload), Valid: len(msg.Payload) > 0},
	)
	if err != nil {
		return fmt.Errorf("insert audit log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entity audit.EntityID, limit int) ([]audit.Message, error) {
	query := `
		SELECT namespace, entity_type, entity_name, audit_type, username, event_time, payload
		FROM audit_log
		WHERE namespace = $1 AND entity_type = $2 AND entity_name = $3
		ORDER BY event_time DESC, recorded_at DESC
	`
	args := []any{entity.Namespace, entity.Entity, entity.Name}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	out := []audit.Message{}
	for rows.Next() {
		var (
			msg       audit.Message
			auditType string
			user      sql.NullString
			payload   sql.NullString
			eventTime sql.NullTime
		)
		if err := rows.Scan(&msg.EntityID.Namespace, &msg.EntityID.Entity, &msg.EntityID.Name,
			&auditType, &user, &eventTime, &payload); err != nil {
			return nil, fmt.Errorf("scan audit log entry: %w", err)
		}
		msg.Type = audit.Type(auditType)
		msg.User = user.String
		msg.Time = eventTime.Time.UnixMilli()
		if payload.Valid {
			msg.Payload = json.RawMessage(payload.String)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return out, nil
}
