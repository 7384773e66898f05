package port

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Balerman2/CallShift/internal/core/domain"
)

// AuditRepository appends entries to the write-once audit trail.
type AuditRepository interface {
	WithTx(tx pgx.Tx) AuditRepository
	Record(ctx context.Context, entry domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
