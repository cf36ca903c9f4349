package tracking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/redisx"
)

const (
	driverName    = "Driver BookPort"
	driverPhone   = "081234567890"
	driverVehicle = "Motor"

	// Driver sits at a fixed offset from the destination; movement is not
	// simulated, the admin completes the delivery manually.
	driverOffset = 0.05

	republishInterval = 5 * time.Second
)

// DriverPosition builds the synthetic driver record near a destination.
func DriverPosition(dest Coordinate) Position {
	return Position{
		Lat:       dest.Lat - driverOffset,
		Lng:       dest.Lng - driverOffset,
		Name:      driverName,
		Phone:     driverPhone,
		Vehicle:   driverVehicle,
		Timestamp: time.Now(),
	}
}

type feedUpdate struct {
	OrderID  int64    `json:"order_id"`
	Position Position `json:"position"`
}

type feedEnded struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// Feed republishes each tracked order's driver position on a fixed interval
// over a Redis push channel. Fire-and-forget: no subscriber backpressure,
// nothing survives a restart.
type Feed struct {
	Store    Store
	RDB      *redis.Client
	Log      *zap.Logger
	Interval time.Duration

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func NewFeed(store Store, rdb *redis.Client, log *zap.Logger) *Feed {
	return &Feed{
		Store:    store,
		RDB:      rdb,
		Log:      log,
		Interval: republishInterval,
		cancels:  make(map[int64]context.CancelFunc),
	}
}

// Start begins publishing for an order headed to dest, replacing any
// existing publisher for the same order.
func (f *Feed) Start(orderID int64, dest Coordinate) {
	pos := DriverPosition(dest)

	ctx, cancel := context.WithCancel(context.Background())
	f.mu.Lock()
	if old, ok := f.cancels[orderID]; ok {
		old()
	}
	f.cancels[orderID] = cancel
	f.mu.Unlock()

	if err := f.Store.Set(ctx, orderID, pos); err != nil {
		f.Log.Warn("tracking store set", zap.Int64("pesanan_id", orderID), zap.Error(err))
	}

	go f.republish(ctx, orderID, pos)
	f.Log.Info("tracking started", zap.Int64("pesanan_id", orderID))
}

func (f *Feed) republish(ctx context.Context, orderID int64, pos Position) {
	t := time.NewTicker(f.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pos.Timestamp = time.Now()
			if err := f.Store.Set(ctx, orderID, pos); err != nil {
				f.Log.Warn("tracking store set", zap.Int64("pesanan_id", orderID), zap.Error(err))
				continue
			}
			b, _ := json.Marshal(feedUpdate{OrderID: orderID, Position: pos})
			_ = f.RDB.Publish(ctx, redisx.ChannelDriverPosition, b).Err()
		}
	}
}

// Stop ends publishing for an order and drops its live state.
func (f *Feed) Stop(orderID int64, finalStatus string) {
	f.mu.Lock()
	cancel, ok := f.cancels[orderID]
	if ok {
		delete(f.cancels, orderID)
	}
	f.mu.Unlock()
	if !ok {
		return
	}
	cancel()

	ctx, cancelCtx := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelCtx()
	_ = f.Store.Delete(ctx, orderID)
	b, _ := json.Marshal(feedEnded{OrderID: orderID, Status: finalStatus})
	_ = f.RDB.Publish(ctx, redisx.ChannelTrackingEnded, b).Err()
	f.Log.Info("tracking stopped", zap.Int64("pesanan_id", orderID))
}

// Shutdown cancels every publisher; live state is left to expire.
func (f *Feed) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, cancel := range f.cancels {
		cancel()
		delete(f.cancels, id)
	}
}
