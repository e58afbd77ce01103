package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions are the connection settings read from configuration
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a pooled client and pings it once. A failed ping is logged,
// not returned: the pool keeps reconnecting in the background.
func NewRedisClient(opts RedisOptions, log *zap.SugaredLogger) *redis.Client {
	log.Infow("Initializing Redis client", "addr", opts.Addr, "db", opts.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to ping Redis", "addr", opts.Addr, "error", err)
		return client
	}

	log.Info("Successfully connected to Redis")
	return client
}
