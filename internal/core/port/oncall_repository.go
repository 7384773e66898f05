package port

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Balerman2/CallShift/internal/core/domain"
)

// OnCallRepository exposes the append-only on-call ledger. CloseOpen and
// Insert are only safe when executed within a transaction holding the
// division lock acquired via LockDivision.
type OnCallRepository interface {
	WithTx(tx pgx.Tx) OnCallRepository
	LockDivision(ctx context.Context, division string) error
	CloseOpen(ctx context.Context, division string, at time.Time) (int64, error)
	Insert(ctx context.Context, assignment domain.OnCallAssignment) (*domain.OnCallAssignment, error)
	CurrentOpen(ctx context.Context, division string) (*domain.OnCallStatus, error)
}
