package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voting"

var (
	httpRequestsTotal  *prometheus.CounterVec
	votesTotal         *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheErrors        *prometheus.CounterVec
	cacheInvalidations prometheus.Counter
	registerOnce       sync.Once
)

// Register initializes Prometheus metrics on the default registry.
// Every helper below is a no-op until Register has run, so tests need not call it.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the voting API.",
		}, []string{"method", "path", "status"})

		votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Votes recorded, by vote type.",
		}, []string{"vote_type"})

		cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits, by scope (item or collection).",
		}, []string{"scope"})

		cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses, by scope (item or collection).",
		}, []string{"scope"})

		cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Cache tier faults downgraded to misses, by operation.",
		}, []string{"op"})

		cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache invalidations triggered by counter mutations.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncVote(kind string) {
	if votesTotal == nil {
		return
	}
	votesTotal.WithLabelValues(kind).Inc()
}

func IncCacheHit(scope string) {
	if cacheHits == nil {
		return
	}
	cacheHits.WithLabelValues(scope).Inc()
}

func IncCacheMiss(scope string) {
	if cacheMisses == nil {
		return
	}
	cacheMisses.WithLabelValues(scope).Inc()
}

func IncCacheError(op string) {
	if cacheErrors == nil {
		return
	}
	cacheErrors.WithLabelValues(op).Inc()
}

func IncCacheInvalidation() {
	if cacheInvalidations == nil {
		return
	}
	cacheInvalidations.Inc()
}
