package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aura-backend/internal/activity/domain/model"
)

type memStore struct {
	mu      sync.Mutex
	streams map[string][]model.Entry
	expired map[string]time.Duration
	seq     int
	err     error
}

func newMemStore() *memStore {
	return &memStore{streams: make(map[string][]model.Entry), expired: make(map[string]time.Duration)}
}

func (m *memStore) Append(ctx context.Context, e model.Entry, maxLen int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.seq++
	e.ID = fmt.Sprintf("%d-0", m.seq)
	s := append(m.streams[e.GroupID], e)
	if int64(len(s)) > maxLen {
		s = s[int64(len(s))-maxLen:]
	}
	m.streams[e.GroupID] = s
	return e.ID, nil
}

func (m *memStore) Since(ctx context.Context, groupID, since string, limit int64) ([]model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Entry{}
	seen := since == ""
	for _, e := range m.streams[groupID] {
		if seen && int64(len(out)) < limit {
			out = append(out, e)
		}
		if e.ID == since {
			seen = true
		}
	}
	return out, nil
}

func (m *memStore) Expire(ctx context.Context, groupID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired[groupID] = ttl
	return nil
}

func (m *memStore) Trim(ctx context.Context, maxLen int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.streams {
		if int64(len(s)) > maxLen {
			m.streams[k] = s[int64(len(s))-maxLen:]
			n++
		}
	}
	return n, nil
}

type members map[string][]string

func (m members) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	for _, id := range m[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
