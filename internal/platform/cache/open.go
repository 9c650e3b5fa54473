package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"voting-system/internal/retry"
)

const memoryEvictionInterval = time.Minute

// Open returns the Redis tier when cfg.Addr is set and reachable, otherwise
// an in-process Memory tier. The returned func releases the tier.
func Open(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (Tier, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Addr != "" {
		var client rueidis.Client
		err := retry.Do(ctx, retry.Policy{
			Attempts:  3,
			BaseDelay: 200 * time.Millisecond,
			OnRetry: func(attempt int, err error) {
				logger.Warn("Redis not reachable, retrying", zap.Int("attempt", attempt), zap.Error(err))
			},
		}, func() error {
			c, err := NewRedisClient(cfg)
			if err != nil {
				return err
			}
			client = c
			return nil
		})
		if err == nil {
			logger.Info("Using Redis cache tier", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
			return NewRedis(client, cfg, logger), client.Close
		}
		logger.Warn("Falling back to in-process cache", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	mem := NewMemory(logger)
	logger.Info("Using in-process cache tier")
	return mem, mem.StartEvictionTimer(memoryEvictionInterval)
}
