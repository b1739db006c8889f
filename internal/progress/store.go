package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/eduspark/internal/store"
)

// StatsKey names the persisted progress record.
const StatsKey = "eduspark_stats"

// KVStore keeps Stats as one JSON record in a store.KVRepo.
type KVStore struct {
	repo store.KVRepo
	key  string
}

// NewKVStore returns a Store writing to StatsKey.
func NewKVStore(repo store.KVRepo) *KVStore {
	return &KVStore{repo: repo, key: StatsKey}
}

func (s *KVStore) Load(ctx context.Context) (Stats, bool, error) {
	raw, ok, err := s.repo.Get(ctx, s.key)
	if err != nil || !ok {
		return Stats{}, false, err
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return Stats{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return stats, true, nil
}

func (s *KVStore) Save(ctx context.Context, stats Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	return s.repo.Put(ctx, s.key, raw)
}

// MemoryStore is a Store kept in memory. SaveErr, when set, fails every Save.
type MemoryStore struct {
	mu      sync.Mutex
	stats   *Stats
	saves   int
	SaveErr error
}

// NewMemoryStore returns a MemoryStore, optionally pre-seeded.
func NewMemoryStore(seed *Stats) *MemoryStore {
	m := &MemoryStore{}
	if seed != nil {
		s := seed.clone()
		m.stats = &s
	}
	return m
}

func (m *MemoryStore) Load(context.Context) (Stats, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		return Stats{}, false, nil
	}
	return m.stats.clone(), true, nil
}

func (m *MemoryStore) Save(_ context.Context, stats Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	s := stats.clone()
	m.stats = &s
	m.saves++
	return nil
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
