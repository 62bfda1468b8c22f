package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"aura-backend/internal/location/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

type memLocations struct {
	mu   sync.Mutex
	locs []model.Location
	err  error
}

func (m *memLocations) sorted() []model.Location {
	out := append([]model.Location(nil), m.locs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memLocations) PrefixScan(ctx context.Context, prefix string) ([]model.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Location{}
	for _, l := range m.sorted() {
		if strings.HasPrefix(l.Name, prefix) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLocations) Sample(ctx context.Context, limit int64) ([]model.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memLocations) Exists(ctx context.Context, name, address string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locs {
		if l.Name == name && l.Address == address {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLocations) Create(ctx context.Context, loc *model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locs {
		if l.Name == loc.Name && l.Address == loc.Address {
			return apperrors.NewConflictError("exists")
		}
	}
	m.locs = append(m.locs, *loc)
	return nil
}

type stubPlaces struct {
	results []model.Location
	err     error
	calls   int
}

func (s *stubPlaces) TextSearch(ctx context.Context, query string, near model.Point) ([]model.Location, error) {
	s.calls++
	return s.results, s.err
}
