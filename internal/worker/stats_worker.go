package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type VoteEvent struct {
	ItemID int64
	Kind   string
	At     time.Time
}

// Tally is the running count of accepted vote events since startup.
type Tally struct {
	Events int64            `json:"events"`
	ByKind map[string]int64 `json:"by_kind"`
	Last   time.Time        `json:"last_event_at"`
}

// StatsWorker consumes vote events off the request path and keeps a tally
// that is logged on every tick.
type StatsWorker struct {
	Ch       <-chan VoteEvent
	interval time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	tally Tally
}

func NewStatsWorker(ch <-chan VoteEvent, interval time.Duration, logger *zap.Logger) *StatsWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		Ch:       ch,
		interval: interval,
		logger:   logger,
		tally:    Tally{ByKind: make(map[string]int64)},
	}
}

func (w *StatsWorker) Run(ctx context.Context) {
	w.logger.Info("Stats worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stats worker stopped", zap.Int64("events", w.Snapshot().Events))
			return
		case ev, ok := <-w.Ch:
			if !ok {
				w.logger.Info("Stats worker channel closed")
				return
			}
			w.record(ev)
		case <-ticker.C:
			s := w.Snapshot()
			w.logger.Info("Vote activity",
				zap.Int64("events", s.Events),
				zap.Any("by_kind", s.ByKind),
				zap.Time("last_event_at", s.Last))
		}
	}
}

func (w *StatsWorker) record(ev VoteEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tally.Events++
	w.tally.ByKind[ev.Kind]++
	if ev.At.After(w.tally.Last) {
		w.tally.Last = ev.At
	}
	w.logger.Debug("Processed vote event", zap.Int64("item_id", ev.ItemID), zap.String("vote_type", ev.Kind))
}

// Snapshot returns a copy of the current tally.
func (w *StatsWorker) Snapshot() Tally {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := Tally{Events: w.tally.Events, Last: w.tally.Last, ByKind: make(map[string]int64, len(w.tally.ByKind))}
	for k, v := range w.tally.ByKind {
		out.ByKind[k] = v
	}
	return out
}
