package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// Store keeps datasets in process memory only; nothing survives a restart.
// Put and Get deep-copy, so callers read and mutate their own snapshots the
// same way they would rows loaded from a database. Beyond the capacity cap
// the oldest dataset is evicted.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Dataset
	order []string // insertion order, oldest first
	max   int
}

const defaultMax = 16

func New(max int) *Store {
	if max <= 0 {
		max = defaultMax
	}
	return &Store{byID: make(map[string]*domain.Dataset), max: max}
}

func (s *Store) Put(ctx context.Context, ds *domain.Dataset) error {
	cp, err := clone(ds)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[cp.ID]; !ok {
		s.order = append(s.order, cp.ID)
		for len(s.order) > s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.byID, oldest)
		}
	}
	s.byID[cp.ID] = cp
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	s.mu.RLock()
	ds, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(ds)
}

func (s *Store) List(ctx context.Context) ([]domain.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DatasetInfo, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- { // newest first
		ds, ok := s.byID[s.order[i]]
		if !ok {
			continue
		}
		out = append(out, info(ds))
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func info(ds *domain.Dataset) domain.DatasetInfo {
	di := domain.DatasetInfo{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		Records:   len(ds.Records),
	}
	for _, r := range ds.Records {
		if r.Analysis.Status == domain.StatusUnavailable {
			di.Unavailable++
		}
	}
	return di
}

// clone round-trips through JSON; dataset payloads always originate from
// JSON/CSV decoding, so the trip is lossless.
func clone(ds *domain.Dataset) (*domain.Dataset, error) {
	b, err := json.Marshal(ds)
	if err != nil {
		return nil, err
	}
	var out domain.Dataset
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
