package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/orders"
)

type stubStore struct {
	cutoff    time.Time
	expired   []orders.ExpiredOrder
	cancelled []int64
	failID    int64
}

func (s *stubStore) SelectExpired(_ context.Context, cutoff time.Time) ([]orders.ExpiredOrder, error) {
	s.cutoff = cutoff
	return s.expired, nil
}

func (s *stubStore) CancelExpired(_ context.Context, id int64) error {
	if id == s.failID {
		return errors.New("conflict")
	}
	s.cancelled = append(s.cancelled, id)
	return nil
}

func TestSweepCutoffIsNowMinusMaxAge(t *testing.T) {
	store := &stubStore{}
	sw := &Sweeper{Repo: store, Interval: time.Hour, MaxAge: 24 * time.Hour, Log: zap.NewNop()}

	before := time.Now().Add(-24 * time.Hour)
	sw.sweep(context.Background())
	after := time.Now().Add(-24 * time.Hour)

	assert.False(t, store.cutoff.Before(before), "cutoff too old: %v", store.cutoff)
	assert.False(t, store.cutoff.After(after), "cutoff too recent: %v", store.cutoff)
}

func TestSweepContinuesAfterFailure(t *testing.T) {
	store := &stubStore{
		expired: []orders.ExpiredOrder{
			{ID: 1, MidtransOrderID: "BOOKPORT-1-1"},
			{ID: 2, MidtransOrderID: "BOOKPORT-2-1"},
			{ID: 3, MidtransOrderID: "BOOKPORT-3-1"},
		},
		failID: 2,
	}
	sw := &Sweeper{Repo: store, Interval: time.Hour, MaxAge: 24 * time.Hour, Log: zap.NewNop()}

	sw.sweep(context.Background())

	assert.Equal(t, []int64{1, 3}, store.cancelled)
}
