package cycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLocked reports that another orchestration pass currently holds the
// org's lock.
var ErrLocked = errors.New("another orchestration pass holds the org lock")

// Locker serializes orchestration passes per org so two concurrent passes
// never allocate from the same balance pool.
type Locker interface {
	Obtain(ctx context.Context, orgID string) (release func(), err error)
}

const lockTTL = 30 * time.Second

// RedisLocker takes a distributed advisory lock, for deployments with more
// than one orchestrator instance.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

func (l *RedisLocker) Obtain(ctx context.Context, orgID string) (func(), error) {
	lock, err := l.client.Obtain(ctx, "orchestrate:"+orgID, lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}

	if err != nil {
		return nil, err
	}

	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}

// LocalLocker serializes passes within a single process. Used when no Redis
// address is configured.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Obtain(_ context.Context, orgID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[orgID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[orgID] = m
	}
	l.mu.Unlock()

	m.Lock()

	return m.Unlock, nil
}
