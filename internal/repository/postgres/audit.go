package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
)

// AuditRepository implements port.AuditRepository backed by PostgreSQL.
type AuditRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAuditRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAuditRepository(exec pgExecutor) *AuditRepository {
	return &AuditRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *AuditRepository) WithTx(tx pgx.Tx) port.AuditRepository {
	if tx == nil {
		return r
	}
	return &AuditRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Record appends one entry to the audit trail.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	var userValue any
	if entry.UserID != nil {
		userValue = *entry.UserID
	}

	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("audit_log").
		Columns("event_type", "user_id", "details", "ip_address", "timestamp").
		Values(entry.EventType, userValue, entry.Details, entry.IPAddress, timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit entry sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// ListRecent returns the newest audit entries, most recent first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	stmt, args, err := r.builder.
		Select("id", "event_type", "user_id", "details", "ip_address", "timestamp").
		From("audit_log").
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var (
			entry  domain.AuditEntry
			userID sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.EventType, &userID, &entry.Details, &entry.IPAddress, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if userID.Valid {
			val := userID.Int64
			entry.UserID = &val
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}

var _ port.AuditRepository = (*AuditRepository)(nil)
