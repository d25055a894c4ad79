// Package lock provides the Redis-backed slot lock used while booking.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/booking"
)

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was taken by another request is left alone.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

const releaseTimeout = 2 * time.Second

// RedisLocker implements booking.SlotLocker with SET NX PX.
type RedisLocker struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

// NewRedisLocker returns a locker whose keys are "<prefix>:<slot key>" and
// expire after ttl unless released first.
func NewRedisLocker(rdb redis.Cmdable, prefix string, ttl time.Duration, log *zap.Logger) *RedisLocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, prefix: prefix, log: log}
}

// Acquire takes the lock for key.  It returns booking.ErrSlotLocked when
// another holder has it and the Redis error when the backend fails.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	full := l.prefix + ":" + key
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booking.ErrSlotLocked
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{full}, token).Err(); err != nil {
			l.log.Warn("slot lock release failed", zap.String("key", full), zap.Error(err))
		}
	}
	return release, nil
}
