package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) port.UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row and returns its generated identifier.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	var emailValue any
	if user.Email != nil && *user.Email != "" {
		emailValue = *user.Email
	}

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("users").
		Columns("pin_digest", "phone", "name", "email", "division", "created_at").
		Values(user.PINDigest, user.Phone, user.Name, emailValue, user.Division, createdAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert user sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

// GetByPINDigest retrieves the user whose stored digest exactly matches the
// supplied value. Digest uniqueness is not enforced; the first match wins.
func (r *UserRepository) GetByPINDigest(ctx context.Context, digest string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select("id", "pin_digest", "phone", "name", "email", "division", "created_at", "last_login").
		From("users").
		Where(squirrel.Eq{"pin_digest": digest}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by digest sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// TouchLastLogin records the moment of the user's latest successful authentication.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	stmt, args, err := r.builder.Update("users").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch last login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Update applies the non-nil fields of the patch to an existing user.
func (r *UserRepository) Update(ctx context.Context, id int64, patch port.UserPatch) error {
	if patch.Empty() {
		return nil
	}

	query := r.builder.Update("users")
	if patch.Phone != nil {
		query = query.Set("phone", *patch.Phone)
	}
	if patch.Name != nil {
		query = query.Set("name", *patch.Name)
	}
	if patch.Email != nil {
		query = query.Set("email", *patch.Email)
	}
	if patch.Division != nil {
		query = query.Set("division", *patch.Division)
	}
	if patch.PINDigest != nil {
		query = query.Set("pin_digest", *patch.PINDigest)
	}

	stmt, args, err := query.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all users ordered by identifier.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	stmt, args, err := r.builder.
		Select("id", "pin_digest", "phone", "name", "email", "division", "created_at", "last_login").
		From("users").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		email     sql.NullString
		lastLogin *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.PINDigest,
		&user.Phone,
		&user.Name,
		&email,
		&user.Division,
		&user.CreatedAt,
		&lastLogin,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if email.Valid {
		val := email.String
		user.Email = &val
	}
	user.LastLogin = lastLogin

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
