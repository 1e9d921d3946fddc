package credential

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/config"
)

const redisOpTimeout = 3 * time.Second

// NewRedisClient connects to Redis using the provided configuration.
// Connectivity problems are logged, not fatal: a lagging credential
// mirror must never take the dashboard down.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return client
}

// RedisStore keeps a named value in Redis. It can replace FileStore as
// the long-lived tier when the gateway runs on more than one instance.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store bound to one Redis key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Name identifies the store.
func (s *RedisStore) Name() string { return "redis" }

// Read returns the stored value, or "" when the key is absent.
func (s *RedisStore) Read() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Write persists the value with the given lifetime.
func (s *RedisStore) Write(value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.key, value, ttl).Err()
}

// Clear removes the key.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return s.client.Del(ctx, s.key).Err()
}
