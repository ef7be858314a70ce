package caching

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"chlsync/internal/config"
)

// RunLock prevents overlapping sync runs when the scheduler fires while a
// previous batch is still in flight.
type RunLock interface {
	Acquire(ctx context.Context, name string, lease time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

type redisRunLock struct {
	client *redis.Client
}

func NewRedisRunLock(cfg config.RunLockConfig) RunLock {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, cfg.RedisAddr)
	}

	return &redisRunLock{client: client}
}

func lockKey(name string) string {
	return fmt.Sprintf("chlsync:run-lock:%s", name)
}

// Acquire takes the lock via SET NX with a lease so a crashed run cannot
// hold it forever. Returns false when another run holds it.
func (r *redisRunLock) Acquire(ctx context.Context, name string, lease time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(name), time.Now().UTC().Format(time.RFC3339), lease).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock %s: %w", name, err)
	}
	return ok, nil
}

func (r *redisRunLock) Release(ctx context.Context, name string) error {
	return r.client.Del(ctx, lockKey(name)).Err()
}

// NopRunLock is used when no Redis is configured: a one-shot cron
// invocation needs no coordination.
type NopRunLock struct{}

func (NopRunLock) Acquire(ctx context.Context, name string, lease time.Duration) (bool, error) {
	return true, nil
}

func (NopRunLock) Release(ctx context.Context, name string) error {
	return nil
}
