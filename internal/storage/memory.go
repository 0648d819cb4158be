package storage

import (
	"chordring/internal/domain"
	"chordring/internal/logger"
	"math/big"
	"sync"
)

// MemoryStore is an in-memory, concurrency-safe implementation of
// Storage. It is the only storage backend this design calls for: "no
// persistence across restarts".
type MemoryStore struct {
	space domain.Space
	lgr   logger.Logger

	mu   sync.RWMutex
	data map[string]domain.Resource // keyed by the raw (un-hashed) key
}

// NewMemoryStore creates an empty store scoped to the given identifier
// space (needed to size modular range comparisons in Between).
func NewMemoryStore(space domain.Space, lgr logger.Logger) *MemoryStore {
	if lgr == nil {
		lgr = logger.NopLogger{}
	}
	return &MemoryStore{
		space: space,
		lgr:   lgr,
		data:  make(map[string]domain.Resource),
	}
}

// Put implements Storage.
func (s *MemoryStore) Put(res domain.Resource) {
	s.mu.Lock()
	_, existed := s.data[res.RawKey]
	s.data[res.RawKey] = res
	s.mu.Unlock()
	if existed {
		s.lgr.Debug("key updated", logger.F("key", res.RawKey))
	} else {
		s.lgr.Debug("key inserted", logger.F("key", res.RawKey))
	}
}

// Get implements Storage.
func (s *MemoryStore) Get(key string) (domain.Resource, error) {
	s.mu.RLock()
	res, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return domain.Resource{}, domain.ErrResourceNotFound
	}
	return res, nil
}

// Delete implements Storage.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// Between implements Storage. It walks the whole map under a read
// lock; the Chord non-goals exclude any data structure fancier than a
// plain map, so this is the honest cost of a range query here.
func (s *MemoryStore) Between(from, to domain.ID) []domain.Resource {
	size := s.space.Size()
	lo, _ := s.space.AddMod(from, s.space.FromUint64(1))
	mr := domain.NewModRange(lo.ToBigInt(), new(big.Int).Add(to.ToBigInt(), big.NewInt(1)), size)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Resource
	for _, res := range s.data {
		if mr.ContainsID(res.Key) {
			result = append(result, res)
		}
	}
	return result
}

// All implements Storage. It snapshots every stored resource under a
// read lock so callers (migrate_data) can iterate without holding the
// store locked across an outbound RPC.
func (s *MemoryStore) All() []domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Resource, 0, len(s.data))
	for _, res := range s.data {
		out = append(out, res)
	}
	return out
}

// Len implements Storage.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
