package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/orders"
)

// OrderStore is the slice of the orders repo the sweeper touches.
type OrderStore interface {
	SelectExpired(ctx context.Context, cutoff time.Time) ([]orders.ExpiredOrder, error)
	CancelExpired(ctx context.Context, id int64) error
}

// Sweeper cancels stale unpaid orders on a fixed schedule and restores their
// stock. Best-effort: a failing order is logged and the batch continues.
type Sweeper struct {
	Repo     OrderStore
	Interval time.Duration
	MaxAge   time.Duration
	Log      *zap.Logger
}

func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.MaxAge)
	expired, err := s.Repo.SelectExpired(ctx, cutoff)
	if err != nil {
		s.Log.Error("select expired orders", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		s.Log.Debug("no expired orders")
		return
	}

	cancelled := 0
	for _, o := range expired {
		if err := s.Repo.CancelExpired(ctx, o.ID); err != nil {
			s.Log.Error("cancel expired order",
				zap.Int64("pesanan_id", o.ID),
				zap.String("midtrans_order_id", o.MidtransOrderID),
				zap.Error(err))
			continue
		}
		cancelled++
	}
	s.Log.Info("expired orders swept",
		zap.Int("found", len(expired)), zap.Int("cancelled", cancelled))
}
