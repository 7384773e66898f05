package port

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxBeginner starts database transactions. Satisfied by pgxpool.Pool and by
// pgxmock pools in tests.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
