package notarize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/bookport/bookport/internal/kafka"
	"github.com/bookport/bookport/internal/ledger"
	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/redisx"
)

// Service consumes ReceiptRequested events and writes receipts to the
// external ledger. Failure is never retried through the broker; the
// continuation is either the stored tx hash or a row in the manual retry
// queue.
type Service struct {
	Repo        *orders.Repo
	Queue       *ledger.RetryQueue
	Notary      ledger.Notary
	Redis       *redis.Client
	Timeout     time.Duration
	ServiceName string
	Log         *zap.Logger
}

// HandleReceiptRequested dipasang sebagai handler consumer.
func (s *Service) HandleReceiptRequested(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventReceiptRequested {
		return nil
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "notarize", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.ReceiptRequestedPayload](env.Payload)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	txRef, err := s.Notary.RecordReceipt(callCtx, p.PesananID, p.UserID, p.TotalHarga)
	if err != nil {
		s.Log.Error("notarization failed, queueing for manual retry",
			zap.Int64("pesanan_id", p.PesananID), zap.Error(err))
		if qErr := s.Queue.Enqueue(ctx, p.PesananID, err.Error()); qErr != nil {
			return qErr
		}
		return nil
	}

	if err := s.Repo.SetTxHash(ctx, p.PesananID, txRef); err != nil {
		return err
	}
	s.Log.Info("receipt notarized",
		zap.Int64("pesanan_id", p.PesananID), zap.String("tx_ref", txRef))
	return nil
}
