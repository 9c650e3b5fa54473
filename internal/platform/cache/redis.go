package cache

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"voting-system/internal/metrics"
)

const (
	scanBatchSize = 100
	// Flush and Stats walk the whole namespace, so they get a longer bound
	// than single-key calls.
	defaultBulkTimeout = 10 * time.Second
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// Timeout bounds every single cache call.
	Timeout time.Duration
}

// NewRedisClient opens a rueidis client. Client side caching is disabled since
// entries are invalidated explicitly by key.
func NewRedisClient(cfg RedisConfig) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.Addr},
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return client, nil
}

// Redis is a Tier backed by a shared Redis server.
type Redis struct {
	client  rueidis.Client
	prefix      string
	timeout     time.Duration
	bulkTimeout time.Duration
	logger      *zap.Logger
}

func NewRedis(client rueidis.Client, cfg RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		client:      client,
		prefix:      cfg.Prefix,
		timeout:     cfg.Timeout,
		bulkTimeout: max(defaultBulkTimeout, cfg.Timeout),
		logger:      logger,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.client.Do(ctx, r.client.B().Get().Key(r.key(key)).Build()).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			metrics.IncCacheError("get")
			r.logger.Warn("Redis cache GET failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// SET EX has second resolution.
	if ttl < time.Second {
		ttl = time.Second
	}
	err := r.client.Do(ctx, r.client.B().Set().Key(r.key(key)).Value(rueidis.BinaryString(value)).Ex(ttl).Build()).Error()
	if err != nil {
		metrics.IncCacheError("set")
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Do(ctx, r.client.B().Del().Key(full...).Build()).Error(); err != nil {
		metrics.IncCacheError("delete")
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.client.Do(ctx, r.client.B().Ping().Build()).Error() == nil
}

// Flush walks the namespace with SCAN rather than KEYS so a large keyspace
// does not block the server.
func (r *Redis) Flush(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.bulkTimeout)
	defer cancel()

	deleted := 0
	err := r.scan(ctx, func(keys []string) error {
		if len(keys) == 0 {
			return nil
		}
		n, err := r.client.Do(ctx, r.client.B().Del().Key(keys...).Build()).AsInt64()
		if err != nil {
			return err
		}
		deleted += int(n)
		return nil
	})
	if err != nil {
		metrics.IncCacheError("flush")
		return deleted, fmt.Errorf("redis flush: %w", err)
	}
	return deleted, nil
}

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.bulkTimeout)
	defer cancel()

	stats := Stats{Backend: "redis"}

	info, err := r.client.Do(ctx, r.client.B().Info().Build()).ToString()
	if err != nil {
		return stats, fmt.Errorf("redis info: %w", err)
	}
	fields := parseInfo(info)
	stats.Version = fields["redis_version"]
	stats.UsedMemory = fields["used_memory_human"]
	if v, err := strconv.ParseInt(fields["connected_clients"], 10, 64); err == nil {
		stats.ConnectedClients = v
	}

	err = r.scan(ctx, func(keys []string) error {
		stats.Keys += len(keys)
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("redis scan: %w", err)
	}
	return stats, nil
}

func (r *Redis) scan(ctx context.Context, fn func(keys []string) error) error {
	pattern := r.prefix + "*"
	cursor := uint64(0)
	for {
		entry, err := r.client.Do(ctx, r.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatchSize).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if err := fn(entry.Elements); err != nil {
			return err
		}
		if entry.Cursor == 0 {
			return nil
		}
		cursor = entry.Cursor
	}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func parseInfo(info string) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[k] = v
	}
	return fields
}
