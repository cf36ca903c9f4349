package orders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/tracking"
)

// TransitionResult reports a completed admin transition. RefundRequired
// signals a manual refund in the gateway dashboard; there is no automatic
// refund call.
type TransitionResult struct {
	Order          Order `json:"order"`
	RefundRequired bool  `json:"refund_required,omitempty"`
	RefundAmount   int64 `json:"refund_amount,omitempty"`
}

// FulfillmentService enforces admin-driven status transitions and their
// side effects (stock restoration, refund flagging, tracking lifecycle).
type FulfillmentService struct {
	DB   *pgxpool.Pool
	Feed *tracking.Feed
	Log  *zap.Logger
}

func (s *FulfillmentService) Transition(ctx context.Context, pesananID int64, next FulfillmentStatus) (TransitionResult, error) {
	repo := &Repo{DB: s.DB}
	order, err := repo.Get(ctx, pesananID)
	if err != nil {
		return TransitionResult{}, err
	}

	if !CanTransition(order.StatusPesanan, next) {
		return TransitionResult{}, &InvalidTransitionError{From: order.StatusPesanan, To: next}
	}

	var result TransitionResult
	switch next {
	case StatusCancelled:
		result, err = s.cancel(ctx, order)
	default:
		_, err = s.DB.Exec(ctx,
			`UPDATE pesanan SET status_pesanan=$2, updated_at=now() WHERE id=$1`,
			order.ID, next)
	}
	if err != nil {
		return TransitionResult{}, err
	}

	switch next {
	case StatusShipped:
		alamat := order.Alamat()
		city := alamat.City
		if city == "" {
			city = alamat.Province
		}
		s.Feed.Start(order.ID, tracking.CityCoordinates(city))
	case StatusCompleted, StatusCancelled:
		s.Feed.Stop(order.ID, next.Display())
	}

	updated, err := repo.Get(ctx, pesananID)
	if err != nil {
		return TransitionResult{}, err
	}
	result.Order = updated

	s.Log.Info("order status updated",
		zap.Int64("pesanan_id", pesananID),
		zap.String("from", string(order.StatusPesanan)),
		zap.String("to", string(next)))
	return result, nil
}

// cancel restores stock for every line and, when payment had completed,
// flags the order refunded and reports the amount owed.
func (s *FulfillmentService) cancel(ctx context.Context, order Order) (TransitionResult, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransitionResult{}, err
	}
	defer tx.Rollback(ctx)

	wasPaid := order.StatusPembayaran == PaymentPaid

	sql := `UPDATE pesanan
		SET status_pesanan='cancelled', updated_at=now()
		WHERE id=$1 AND status_pesanan <> 'cancelled'`
	if wasPaid {
		sql = `UPDATE pesanan
			SET status_pesanan='cancelled', status_pembayaran='refunded', updated_at=now()
			WHERE id=$1 AND status_pesanan <> 'cancelled'`
	}
	ct, err := tx.Exec(ctx, sql, order.ID)
	if err != nil {
		return TransitionResult{}, err
	}
	if ct.RowsAffected() == 0 {
		// Cancelled concurrently; that path already restored stock.
		return TransitionResult{}, nil
	}

	if err := restoreStock(ctx, tx, order.ID); err != nil {
		return TransitionResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{}
	if wasPaid {
		result.RefundRequired = true
		result.RefundAmount = order.TotalHarga
		s.Log.Warn("manual refund required via gateway dashboard",
			zap.String("midtrans_order_id", order.MidtransOrderID),
			zap.Int64("refund_amount", order.TotalHarga))
	}
	return result, nil
}
