// Package cache provides the best-effort key/value tier that sits in front of
// the vote counter store. A Tier never owns data: every value it holds can be
// rebuilt from the store, so callers treat any fault as a miss.
package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultPrefix namespaces every key written by this service.
const DefaultPrefix = "voting_system:"

var ErrUnavailable = errors.New("cache tier unavailable")

// Tier is the contract the vote engine depends on. Get reports a miss for
// absent, expired and unreachable entries alike.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Available(ctx context.Context) bool
	// Flush removes every key under the tier's namespace and returns how many
	// were deleted.
	Flush(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Backend          string `json:"backend"`
	Version          string `json:"version,omitempty"`
	ConnectedClients int64  `json:"connected_clients,omitempty"`
	UsedMemory       string `json:"used_memory_human,omitempty"`
	Keys             int    `json:"keys"`
}

// Noop is used when no cache is configured. It is never available.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return ErrUnavailable }

func (Noop) Delete(context.Context, ...string) error { return ErrUnavailable }

func (Noop) Available(context.Context) bool { return false }

func (Noop) Flush(context.Context) (int, error) { return 0, ErrUnavailable }

func (Noop) Stats(context.Context) (Stats, error) { return Stats{Backend: "none"}, ErrUnavailable }
