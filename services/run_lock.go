// services/run_lock.go
package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const runLockTTL = 2 * time.Hour

// RedisRunLock guards a month's distribution run with a SETNX advisory
// lock so two replicas (or the scheduler racing an admin trigger) cannot
// start the same month concurrently. The engine itself is idempotent;
// the lock just avoids burning a full duplicate pass.
type RedisRunLock struct {
	client *redis.Client
}

func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

func (l *RedisRunLock) key(month string) string {
	return "clubbonus:run:" + month
}

// Acquire takes the lock for a month. Returns false when another run
// holds it. The TTL covers a crashed holder.
func (l *RedisRunLock) Acquire(ctx context.Context, month string) (bool, error) {
	return l.client.SetNX(ctx, l.key(month), time.Now().UTC().Format(time.RFC3339), runLockTTL).Result()
}

// Release drops the lock after a run.
func (l *RedisRunLock) Release(ctx context.Context, month string) error {
	return l.client.Del(ctx, l.key(month)).Err()
}
