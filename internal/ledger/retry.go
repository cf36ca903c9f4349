package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RetryQueue persists notarization failures for manual retry from the admin
// back office.
type RetryQueue struct{ DB *pgxpool.Pool }

func (q *RetryQueue) Enqueue(ctx context.Context, pesananID int64, errMsg string) error {
	_, err := q.DB.Exec(ctx, `
		INSERT INTO blockchain_retry_queue (pesanan_id, error_message)
		VALUES ($1, $2)`, pesananID, errMsg)
	return err
}
