package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/bookport/bookport/internal/kafka"
	"github.com/bookport/bookport/internal/payment"
	"github.com/bookport/bookport/internal/redisx"
)

// Reconciler applies asynchronous payment notifications to the order ledger.
type Reconciler struct {
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Producer    *kafkax.Producer // publish ReceiptRequested
	Status      *kafkax.Producer // publish OrderPaid / OrderCancelled
	ServerKey   string
	ServiceName string
	Log         *zap.Logger
}

func (s *Reconciler) publishStatus(eventType string, pesananID int64, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: fmt.Sprintf("%d", pesananID),
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Status.Publish(PartitionKey(pesananID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Handle verifies and applies one gateway notification. The signature check
// runs before any state mutation; ErrSignatureMismatch is the only error the
// HTTP layer turns into a non-200 response.
func (s *Reconciler) Handle(ctx context.Context, n payment.Notification) error {
	expected := payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey)
	if n.SignatureKey != expected {
		return ErrSignatureMismatch
	}

	// Duplicate delivery: once paid, acknowledge without reprocessing.
	var alreadyPaid bool
	err := s.DB.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM pesanan
		              WHERE midtrans_order_id=$1 AND status_pembayaran='paid')`, n.OrderID).
		Scan(&alreadyPaid)
	if err != nil {
		return err
	}
	if alreadyPaid {
		s.Log.Info("notification already processed", zap.String("order_id", n.OrderID))
		return nil
	}

	label := payment.MethodLabel(n.PaymentType)

	switch n.TransactionStatus {
	case "capture", "settlement":
		if n.TransactionStatus == "capture" && n.FraudStatus != "" && n.FraudStatus != "accept" {
			s.Log.Warn("capture with non-accept fraud status, skipping",
				zap.String("order_id", n.OrderID), zap.String("fraud_status", n.FraudStatus))
			return nil
		}
		return s.markPaid(ctx, n.OrderID, label)
	case "pending":
		_, err := s.DB.Exec(ctx,
			`UPDATE pesanan SET payment_method=$2 WHERE midtrans_order_id=$1`, n.OrderID, label)
		return err
	case "deny", "cancel", "expire":
		return s.markFailed(ctx, n.OrderID, label)
	default:
		s.Log.Warn("unhandled transaction status",
			zap.String("order_id", n.OrderID), zap.String("transaction_status", n.TransactionStatus))
		return nil
	}
}

func (s *Reconciler) markPaid(ctx context.Context, sessionID, label string) error {
	var (
		pesananID int64
		userID    int64
		total     int64
	)
	err := s.DB.QueryRow(ctx, `
		UPDATE pesanan
		SET status_pembayaran='paid', status_pesanan='processing',
		    payment_method=$2, updated_at=now()
		WHERE midtrans_order_id=$1
		RETURNING id, user_id, total_harga`, sessionID, label).
		Scan(&pesananID, &userID, &total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrOrderNotFound
		}
		return err
	}

	s.Log.Info("order paid",
		zap.Int64("pesanan_id", pesananID),
		zap.String("payment_method", label))

	// Notarization runs out of band; the continuation (store hash or queue a
	// retry) lives in the worker, so the webhook response never waits on the
	// ledger.
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventReceiptRequested,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: fmt.Sprintf("%d", pesananID),
		Payload: kafkax.MustMarshal(ReceiptRequestedPayload{
			PesananID:  pesananID,
			UserID:     userID,
			TotalHarga: total,
		}),
	}
	s.Producer.Publish(PartitionKey(pesananID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventReceiptRequested)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	s.publishStatus(EventOrderPaid, pesananID, OrderPaidPayload{
		PesananID:     pesananID,
		PaymentMethod: label,
		TotalHarga:    total,
	})

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, pesananID)
	_ = s.Redis.Set(ctx, statusKey, `{"status_pesanan":"processing","status_pembayaran":"paid"}`,
		redisx.TTLStatusCache).Err()
	return nil
}

// markFailed cancels the order and restores stock. The status predicate is
// the double-restore guard shared with the sweeper.
func (s *Reconciler) markFailed(ctx context.Context, sessionID, label string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var pesananID int64
	err = tx.QueryRow(ctx, `
		UPDATE pesanan
		SET status_pembayaran='failed', status_pesanan='cancelled',
		    payment_method=$2, updated_at=now()
		WHERE midtrans_order_id=$1 AND status_pesanan <> 'cancelled'
		RETURNING id`, sessionID, label).Scan(&pesananID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Already cancelled elsewhere; stock was restored then.
			return nil
		}
		return err
	}

	if err := restoreStock(ctx, tx, pesananID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publishStatus(EventOrderCancelled, pesananID, OrderCancelledPayload{
		PesananID: pesananID,
		Reason:    "payment " + label + " failed",
	})

	s.Log.Info("order payment failed, stock restored", zap.Int64("pesanan_id", pesananID))
	return nil
}
