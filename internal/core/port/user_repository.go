package port

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Balerman2/CallShift/internal/core/domain"
)

// UserPatch carries the optional fields of an administrative user update. A
// nil field is left untouched; PINDigest must already be hashed by the caller.
type UserPatch struct {
	Phone     *string
	Name      *string
	Email     *string
	Division  *string
	PINDigest *string
}

// Empty reports whether the patch would change nothing.
func (p UserPatch) Empty() bool {
	return p.Phone == nil && p.Name == nil && p.Email == nil && p.Division == nil && p.PINDigest == nil
}

// UserRepository exposes persistence behavior for the credential store.
type UserRepository interface {
	WithTx(tx pgx.Tx) UserRepository
	Create(ctx context.Context, user domain.User) (int64, error)
	GetByPINDigest(ctx context.Context, digest string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Update(ctx context.Context, id int64, patch UserPatch) error
	List(ctx context.Context) ([]domain.User, error)
}
