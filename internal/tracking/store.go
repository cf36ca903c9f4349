package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookport/bookport/internal/redisx"
)

// Position is the synthetic driver record for one shipped order.
type Position struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Vehicle   string    `json:"vehicle"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds live delivery state keyed by order id. Implementations carry
// no durability guarantee; entries are expected to vanish on restart.
type Store interface {
	Get(ctx context.Context, orderID int64) (Position, bool, error)
	Set(ctx context.Context, orderID int64, pos Position) error
	Delete(ctx context.Context, orderID int64) error
}

type MemoryStore struct {
	mu sync.RWMutex
	m  map[int64]Position
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[int64]Position)}
}

func (s *MemoryStore) Get(_ context.Context, orderID int64) (Position, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[orderID]
	return p, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, orderID int64, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[orderID] = pos
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, orderID)
	return nil
}

// RedisStore keeps positions in Redis so every api replica sees the same
// feed state.
type RedisStore struct{ RDB *redis.Client }

func (s *RedisStore) Get(ctx context.Context, orderID int64) (Position, bool, error) {
	raw, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeyTracking, orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, err
	}
	var p Position
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Position{}, false, err
	}
	return p, true, nil
}

func (s *RedisStore) Set(ctx context.Context, orderID int64, pos Position) error {
	b, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, fmt.Sprintf(redisx.KeyTracking, orderID), b, redisx.TTLTracking).Err()
}

func (s *RedisStore) Delete(ctx context.Context, orderID int64) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeyTracking, orderID)).Err()
}
