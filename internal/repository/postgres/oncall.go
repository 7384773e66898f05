package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/repository"
)

// OnCallRepository implements port.OnCallRepository backed by PostgreSQL.
type OnCallRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOnCallRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewOnCallRepository(exec pgExecutor) *OnCallRepository {
	return &OnCallRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *OnCallRepository) WithTx(tx pgx.Tx) port.OnCallRepository {
	if tx == nil {
		return r
	}
	return &OnCallRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// LockDivision serializes concurrent hand-offs for one division. The advisory
// lock is transaction scoped, so two racing assignments can never both observe
// the same open row. Subsequent statements see state committed by the lock's
// previous holder.
func (r *OnCallRepository) LockDivision(ctx context.Context, division string) error {
	if _, err := r.exec.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", division); err != nil {
		return fmt.Errorf("lock division %q: %w", division, err)
	}
	return nil
}

// CloseOpen terminates the division's open ledger row, if any, and reports how
// many rows were closed. Zero is a valid result for an unassigned division.
func (r *OnCallRepository) CloseOpen(ctx context.Context, division string, at time.Time) (int64, error) {
	stmt, args, err := r.builder.Update("on_call").
		Set("end_time", at).
		Where(squirrel.Eq{"division": division}).
		Where("end_time IS NULL").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build close open assignment sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("close open assignment: %w", err)
	}

	return ct.RowsAffected(), nil
}

// Insert appends a new open ledger row and returns it with the generated id.
func (r *OnCallRepository) Insert(ctx context.Context, assignment domain.OnCallAssignment) (*domain.OnCallAssignment, error) {
	startTime := assignment.StartTime
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("on_call").
		Columns("division", "user_id", "phone", "start_time").
		Values(assignment.Division, assignment.UserID, assignment.Phone, startTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert assignment sql: %w", err)
	}

	inserted := assignment
	inserted.StartTime = startTime
	inserted.EndTime = nil

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&inserted.ID); err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	return &inserted, nil
}

// CurrentOpen returns the division's active assignment joined with the
// assignee's name. The order-by-limit guards the read even if the single-open
// invariant were ever violated.
func (r *OnCallRepository) CurrentOpen(ctx context.Context, division string) (*domain.OnCallStatus, error) {
	stmt, args, err := r.builder.
		Select("o.division", "o.user_id", "u.name", "o.phone", "o.start_time").
		From("on_call o").
		Join("users u ON o.user_id = u.id").
		Where(squirrel.Eq{"o.division": division}).
		Where("o.end_time IS NULL").
		OrderBy("o.start_time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build current on-call sql: %w", err)
	}

	var status domain.OnCallStatus
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&status.Division,
		&status.UserID,
		&status.Name,
		&status.Phone,
		&status.StartTime,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan current on-call: %w", err)
	}

	return &status, nil
}

var _ port.OnCallRepository = (*OnCallRepository)(nil)
