package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultMarkerKey = "clinic:sweep:last_run"

// MarkerStore holds the shared "last sweep run" marker. TryAcquire returns
// true for exactly one caller per interval.
type MarkerStore interface {
	TryAcquire(ctx context.Context, key string, interval time.Duration) (bool, error)
}

// ================================
// Redis
// ================================

type RedisMarker struct {
	client redis.Cmdable
	clock  func() time.Time
}

func NewRedisMarker(client redis.Cmdable) *RedisMarker {
	return &RedisMarker{client: client, clock: time.Now}
}

// TryAcquire is SET key now NX EX interval. The key expiring is what
// re-opens the window.
func (m *RedisMarker) TryAcquire(ctx context.Context, key string, interval time.Duration) (bool, error) {
	return m.client.SetNX(ctx, key, m.clock().UTC().Format(time.RFC3339), interval).Result()
}

// ================================
// In process
// ================================

type MemoryMarker struct {
	mu    sync.Mutex
	last  map[string]time.Time
	clock func() time.Time
}

func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{last: map[string]time.Time{}, clock: time.Now}
}

func (m *MemoryMarker) TryAcquire(ctx context.Context, key string, interval time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if last, ok := m.last[key]; ok && now.Sub(last) < interval {
		return false, nil
	}
	m.last[key] = now
	return true, nil
}
