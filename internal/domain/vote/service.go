package vote

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"voting-system/internal/metrics"
	"voting-system/internal/platform/cache"
)

const (
	DefaultCacheTTL      = time.Hour
	DefaultCollectionTTL = 30 * time.Minute
	DefaultStoreTimeout  = 3 * time.Second
)

type Options struct {
	CacheTTL      time.Duration
	CollectionTTL time.Duration
	// StoreTimeout bounds each Store and Catalog call.
	StoreTimeout time.Duration
	Logger       *zap.Logger
}

// Engine owns vote counting and keeps the cache tier coherent with the store.
// It is the only writer of either tier.
type Engine struct {
	store   Store
	catalog Catalog
	cache   cache.Tier
	logger  *zap.Logger

	cacheTTL      time.Duration
	collectionTTL time.Duration
	storeTimeout  time.Duration

	loads singleflight.Group
	// collectionGen changes on every invalidation so a listing computed
	// before a vote is not written back after it.
	collectionGen atomic.Uint64
}

func NewEngine(store Store, catalog Catalog, tier cache.Tier, opts Options) *Engine {
	if tier == nil {
		tier = cache.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CollectionTTL <= 0 {
		opts.CollectionTTL = DefaultCollectionTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	return &Engine{
		store:         store,
		catalog:       catalog,
		cache:         tier,
		logger:        opts.Logger,
		cacheTTL:      opts.CacheTTL,
		collectionTTL: opts.CollectionTTL,
		storeTimeout:  opts.StoreTimeout,
	}
}

// Initialize creates zeroed counters for an item that has none. Existing
// counters are left untouched. Cached views are dropped either way since the
// item has just become votable and listings computed before omit it.
func (e *Engine) Initialize(ctx context.Context, itemID int64) error {
	_, err := e.initialize(ctx, itemID)
	e.invalidate(ctx, itemID)
	return err
}

// InitializeAll runs Initialize for every eligible item and reports how many
// counters were created.
func (e *Engine) InitializeAll(ctx context.Context) (int, error) {
	refs, err := e.listEligible(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, ref := range refs {
		ok, err := e.initialize(ctx, ref.ID)
		if err != nil {
			return created, err
		}
		if ok {
			e.invalidate(ctx, ref.ID)
			created++
		}
	}
	e.logger.Info("Initialized vote counters", zap.Int("eligible", len(refs)), zap.Int("created", created))
	return created, nil
}

func (e *Engine) initialize(ctx context.Context, itemID int64) (bool, error) {
	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	created, err := e.store.Init(sctx, itemID)
	if err != nil {
		return false, persistenceError("init", err)
	}
	return created, nil
}

// CastVote records one vote. The increment happens atomically in the store;
// a failed write is reported and never retried here.
func (e *Engine) CastVote(ctx context.Context, itemID int64, kind Kind) (Result, error) {
	if !kind.Valid() {
		return Result{}, ErrInvalidKind
	}
	if err := e.ensureEligible(ctx, itemID); err != nil {
		return Result{}, err
	}

	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	counter, err := e.store.Increment(sctx, itemID, kind)
	cancel()
	if errors.Is(err, ErrInvalidTarget) {
		// The item went away between the eligibility check and the write.
		return Result{}, ErrInvalidTarget
	}
	if err != nil {
		return Result{}, persistenceError("increment", err)
	}
	metrics.IncVote(string(kind))

	e.invalidate(ctx, itemID)

	agg, err := e.GetCounts(ctx, itemID)
	if err != nil {
		// The write stands; answer with what the increment returned.
		e.logger.Warn("Re-read after vote failed", zap.Int64("item_id", itemID), zap.Error(err))
		agg = counter.Aggregate()
	}

	return Result{ItemID: itemID, Kind: kind, Votes: agg}, nil
}

// GetCounts is the cache-aside read path. It does not check eligibility.
func (e *Engine) GetCounts(ctx context.Context, itemID int64) (Aggregate, error) {
	key := itemKey(itemID)

	if data, ok := e.cache.Get(ctx, key); ok {
		agg, err := decodeAggregate(data)
		if err == nil {
			metrics.IncCacheHit("item")
			return agg, nil
		}
		e.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
	}
	metrics.IncCacheMiss("item")

	// The load is shared, so one caller going away must not fail the others.
	v, err, _ := e.loads.Do(key, func() (any, error) {
		return e.load(context.WithoutCancel(ctx), itemID)
	})
	if err != nil {
		return Aggregate{}, err
	}
	return v.(Aggregate), nil
}

func (e *Engine) load(ctx context.Context, itemID int64) (Aggregate, error) {
	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	counter, found, err := e.store.Get(sctx, itemID)
	cancel()
	if err != nil {
		return Aggregate{}, persistenceError("read", err)
	}
	if !found {
		return Aggregate{}, ErrNotFound
	}

	agg := counter.Aggregate()
	data, err := encodeAggregate(agg)
	if err != nil {
		e.logger.Warn("Failed to encode aggregate for cache", zap.Int64("item_id", itemID), zap.Error(err))
		return agg, nil
	}
	if err := e.cache.Set(ctx, itemKey(itemID), data, e.cacheTTL); err != nil {
		e.logger.Debug("Cache populate skipped", zap.Int64("item_id", itemID), zap.Error(err))
	}
	return agg, nil
}

// FetchVotes serves a single-item read for an external caller.
func (e *Engine) FetchVotes(ctx context.Context, itemID int64) (Aggregate, error) {
	if err := e.ensureEligible(ctx, itemID); err != nil {
		return Aggregate{}, err
	}
	return e.GetCounts(ctx, itemID)
}

// Reset sets both counters of an eligible item to zero.
func (e *Engine) Reset(ctx context.Context, itemID int64) error {
	if err := e.ensureEligible(ctx, itemID); err != nil {
		return err
	}

	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	err := e.store.Reset(sctx, itemID)
	cancel()
	if err != nil {
		return persistenceError("reset", err)
	}

	e.invalidate(ctx, itemID)
	e.logger.Info("Vote counters reset", zap.Int64("item_id", itemID))
	return nil
}

// Forget drops every cached view of an item, e.g. after it was unpublished
// or deleted.
func (e *Engine) Forget(ctx context.Context, itemID int64) {
	e.invalidate(ctx, itemID)
}

func (e *Engine) CacheAvailable(ctx context.Context) bool {
	return e.cache.Available(ctx)
}

type CacheStatus struct {
	Available bool `json:"available"`
	cache.Stats
}

func (e *Engine) CacheStats(ctx context.Context) (CacheStatus, error) {
	status := CacheStatus{Available: e.cache.Available(ctx)}
	if !status.Available {
		return status, nil
	}
	stats, err := e.cache.Stats(ctx)
	if err != nil {
		return status, fmt.Errorf("cache stats: %w", err)
	}
	status.Stats = stats
	return status, nil
}

func (e *Engine) FlushCache(ctx context.Context) (int, error) {
	e.collectionGen.Add(1)
	n, err := e.cache.Flush(ctx)
	if err != nil {
		return n, fmt.Errorf("cache flush: %w", err)
	}
	e.logger.Info("Cache flushed", zap.Int("keys", n))
	return n, nil
}

// invalidate deletes the item entry and every collection entry. Failures are
// logged only; stale entries still expire by TTL.
func (e *Engine) invalidate(ctx context.Context, itemID int64) {
	key := itemKey(itemID)
	e.loads.Forget(key)
	e.collectionGen.Add(1)
	metrics.IncCacheInvalidation()

	keys := append([]string{key}, allCollectionKeys()...)
	if err := e.cache.Delete(ctx, keys...); err != nil && !errors.Is(err, cache.ErrUnavailable) {
		e.logger.Warn("Cache invalidation failed", zap.Int64("item_id", itemID), zap.Error(err))
	}
}

func (e *Engine) cachedListing(ctx context.Context, key string) ([]ListedItem, bool) {
	data, ok := e.cache.Get(ctx, key)
	if !ok {
		metrics.IncCacheMiss("collection")
		return nil, false
	}
	rows, err := decodeListing(data)
	if err != nil {
		e.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.IncCacheMiss("collection")
		return nil, false
	}
	metrics.IncCacheHit("collection")
	return rows, true
}

func (e *Engine) storeListing(ctx context.Context, key string, rows []ListedItem, gen uint64) {
	if e.collectionGen.Load() != gen {
		return
	}
	data, err := encodeListing(rows)
	if err != nil {
		e.logger.Warn("Failed to encode listing for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, key, data, e.collectionTTL); err != nil {
		e.logger.Debug("Cache populate skipped", zap.String("key", key), zap.Error(err))
	}
}

func (e *Engine) ensureEligible(ctx context.Context, itemID int64) error {
	if itemID <= 0 {
		return ErrInvalidTarget
	}
	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	ok, err := e.catalog.IsEligible(sctx, itemID)
	if err != nil {
		return persistenceError("eligibility", err)
	}
	if !ok {
		return ErrInvalidTarget
	}
	return nil
}

func (e *Engine) listEligible(ctx context.Context) ([]ItemRef, error) {
	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	refs, err := e.catalog.ListEligible(sctx)
	if err != nil {
		return nil, persistenceError("enumerate", err)
	}
	return refs, nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
