package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"aura-backend/internal/event/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

type memEvents struct {
	mu        sync.Mutex
	events    map[model.Kind]map[string]model.Event
	deleteErr error
}

func newMemEvents() *memEvents {
	m := &memEvents{events: map[model.Kind]map[string]model.Event{}}
	for _, k := range model.Kinds {
		m.events[k] = map[string]model.Event{}
	}
	return m
}

func (m *memEvents) Create(_ context.Context, ev *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.Kind][ev.ID] = *ev
	return nil
}

func (m *memEvents) Get(_ context.Context, kind model.Kind, id string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[kind][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(kind.Label())
	}
	return &ev, nil
}

func (m *memEvents) Replace(_ context.Context, ev *model.Event, expected int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.events[ev.Kind][ev.ID]
	if !ok {
		return apperrors.NewNotFoundError(ev.Kind.Label())
	}
	if cur.Version != expected {
		return apperrors.NewConflictError("modified concurrently")
	}
	m.events[ev.Kind][ev.ID] = *ev
	return nil
}

func (m *memEvents) Delete(_ context.Context, kind model.Kind, id string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	cur, ok := m.events[kind][id]
	if !ok {
		return apperrors.NewNotFoundError(kind.Label())
	}
	if cur.Version != version {
		return apperrors.NewConflictError("modified concurrently")
	}
	delete(m.events[kind], id)
	return nil
}

func (m *memEvents) stored(kind model.Kind, id string) (model.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[kind][id]
	return ev, ok
}

type memComments struct {
	mu       sync.Mutex
	comments map[string]model.Comment
}

func newMemComments() *memComments {
	return &memComments{comments: map[string]model.Comment{}}
}

func (m *memComments) Create(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[c.ID] = *c
	return nil
}

func (m *memComments) Get(_ context.Context, id string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Comment")
	}
	return &c, nil
}

func (m *memComments) Update(_ context.Context, id string, body model.CommentBody, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return apperrors.NewNotFoundError("Comment")
	}
	c.Name, c.Avatar, c.Content, c.UpdateAt = body.Name, body.Avatar, body.Content, &at
	m.comments[id] = c
	return nil
}

func (m *memComments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return apperrors.NewNotFoundError("Comment")
	}
	delete(m.comments, id)
	return nil
}

func (m *memComments) ListByEvent(_ context.Context, eventID string, limit int) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Comment{}
	for _, c := range m.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memComments) DeleteByEvent(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.comments {
		if c.EventID == eventID {
			delete(m.comments, id)
		}
	}
	return nil
}
