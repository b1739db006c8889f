package progress

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Store persists the Stats record.
type Store interface {
	// Load returns the saved stats. ok is false when nothing was saved.
	Load(ctx context.Context) (stats Stats, ok bool, err error)

	// Save overwrites the saved stats.
	Save(ctx context.Context, stats Stats) error
}

// Tracker owns the in-memory Stats and writes every change through to a
// Store. Memory is authoritative: a failed save is logged and the update
// stands.
type Tracker struct {
	mu     sync.RWMutex
	stats  Stats
	policy Policy
	store  Store
	logger *zap.Logger
}

// NewTracker loads stats from store once. Missing or unreadable records
// start from DefaultStats. The level is always recomputed from points.
func NewTracker(ctx context.Context, store Store, policy Policy, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		stats:  DefaultStats(),
		policy: policy.withDefaults(),
		store:  store,
		logger: logger,
	}

	if store == nil {
		return t
	}

	saved, ok, err := store.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("discarding unreadable progress record", zap.Error(err))
	case ok:
		if saved.Points < 0 {
			saved.Points = 0
		}
		if saved.CompletedSessions < 0 {
			saved.CompletedSessions = 0
		}
		saved.Level = LevelFor(saved.Points, t.policy.PointsPerLevel)
		t.stats = saved.clone()
	}
	return t
}

// Policy returns the scoring policy in effect.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// AwardPoints adds amount to the points and recomputes the level. An award
// that would overflow the point total is rejected.
func (t *Tracker) AwardPoints(ctx context.Context, amount int) (Stats, error) {
	if amount <= 0 {
		return t.CurrentStats(), fmt.Errorf("award %d: %w", amount, ErrInvalidAmount)
	}
	return t.update(ctx, func(s *Stats) error {
		if amount > math.MaxInt-s.Points {
			return fmt.Errorf("award %d on %d points: %w", amount, s.Points, ErrInvalidAmount)
		}
		s.Points += amount
		return nil
	})
}

// RecordSessionCompletion awards the per-session points and counts the
// session in one update. Both counters saturate at math.MaxInt.
func (t *Tracker) RecordSessionCompletion(ctx context.Context) Stats {
	st, _ := t.update(ctx, func(s *Stats) error {
		s.Points = saturatingAdd(s.Points, t.policy.PointsPerSession)
		s.CompletedSessions = saturatingAdd(s.CompletedSessions, 1)
		return nil
	})
	return st
}

func saturatingAdd(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

// CurrentStats returns a copy of the current stats.
func (t *Tracker) CurrentStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats.clone()
}

// Reset overwrites the stats with DefaultStats.
func (t *Tracker) Reset(ctx context.Context) Stats {
	st, _ := t.update(ctx, func(s *Stats) error {
		*s = DefaultStats()
		return nil
	})
	return st
}

// update applies fn and persists the result. When fn fails nothing changes
// and the current stats are returned with the error.
func (t *Tracker) update(ctx context.Context, fn func(*Stats) error) (Stats, error) {
	t.mu.Lock()
	next := t.stats.clone()
	if err := fn(&next); err != nil {
		current := t.stats.clone()
		t.mu.Unlock()
		return current, err
	}
	t.stats = next
	t.stats.Level = LevelFor(t.stats.Points, t.policy.PointsPerLevel)
	snapshot := t.stats.clone()
	// Saving under the lock keeps writes in mutation order.
	if t.store != nil {
		if err := t.store.Save(ctx, snapshot); err != nil {
			t.logger.Warn("failed to persist progress",
				zap.Int("points", snapshot.Points),
				zap.Int("completed_sessions", snapshot.CompletedSessions),
				zap.Error(err),
			)
		}
	}
	t.mu.Unlock()
	return snapshot, nil
}
