package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetEx(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	RunWhileLocked(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error
}

type RedisConfig struct {
	Addr     string `comment:"Redis address, e.g. localhost:6379"`
	Username string `comment:"optional, Redis username"`
	Password string `comment:"optional, Redis password"`
	DB       int    `comment:"optional, Redis DB"`
}

type Cache struct {
	core *redis.Client
	sync *redsync.Redsync
}

func NewCache(ctx context.Context, cfg RedisConfig) (cache RedisClient, err error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err = client.Ping(ctx).Err()
	if err != nil {
		err = fmt.Errorf("pinging Redis: %w", err)
		return
	}
	cache = &Cache{
		core: client,
		sync: redsync.New(goredis.NewPool(client)),
	}
	return
}

func (c *Cache) SetEx(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.core.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.core.Get(ctx, key).Result()
}

// RunWhileLocked runs fn only if the lock can be taken immediately. A held
// lock means another request is already working on the same resource.
func (c *Cache) RunWhileLocked(ctx context.Context, resourceName string, expiration time.Duration, fn func(ctx context.Context) error) error {
	mutex := c.sync.NewMutex(resourceName, redsync.WithExpiry(expiration), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		return fmt.Errorf("resource %s is locked: %w", resourceName, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()
	return fn(ctx)
}
