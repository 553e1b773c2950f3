package sortedstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisSortedSet manages scored sets in Redis with TTL support.
type RedisSortedSet struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisSortedSet initializes a RedisSortedSet with the provided Redis client and TTL.
// A non-positive TTL keeps sets forever.
func NewRedisSortedSet(client *redis.Client, ttlSeconds int) (*RedisSortedSet, error) {
	if client == nil {
		return nil, fmt.Errorf("sorted set: nil redis client")
	}
	set := &RedisSortedSet{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	set.locker = redsync.New(pool)
	return set, nil
}

// Add stores member with score and sets expiration if necessary.
func (rs *RedisSortedSet) Add(ctx context.Context, key string, score float64, member string) error {
	if _, err := rs.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result(); err != nil {
		return err
	}

	if rs.ttl <= 0 {
		return nil
	}

	// Set expiration only if it's not already set
	ttl, err := rs.client.TTL(ctx, key).Result()
	if err == nil && ttl == -1 {
		_ = rs.client.Expire(ctx, key, rs.ttl).Err()
	}

	return nil
}

// Top retrieves up to `amount` members with the lowest scores without removing them.
func (rs *RedisSortedSet) Top(ctx context.Context, key string, amount int64) ([]string, error) {
	if amount <= 0 {
		return nil, nil
	}
	return rs.client.ZRange(ctx, key, 0, amount-1).Result()
}

// Trim removes everything but the `keep` lowest scored members.
func (rs *RedisSortedSet) Trim(ctx context.Context, key string, keep int64) error {
	mutex := rs.locker.NewMutex(key + ":trim_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	if rs.client.ZCard(ctx, key).Val() <= keep {
		return nil
	}
	return rs.client.ZRemRangeByRank(ctx, key, keep, -1).Err()
}

// Count returns the number of members in the sorted set.
func (rs *RedisSortedSet) Count(ctx context.Context, key string) int64 {
	return rs.client.ZCard(ctx, key).Val()
}
