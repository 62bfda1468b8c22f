package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"aura-backend/internal/chat/domain/model"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
)

type memChats struct {
	mu        sync.Mutex
	chats     map[string]model.Chat
	deleteErr error
}

func newMemChats() *memChats {
	return &memChats{chats: map[string]model.Chat{}}
}

func (m *memChats) Create(_ context.Context, chat *model.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chats[chat.ID]; ok {
		return apperrors.NewConflictError("exists")
	}
	c := *chat
	c.ParticipantIDs = append([]string(nil), chat.ParticipantIDs...)
	m.chats[chat.ID] = c
	return nil
}

func (m *memChats) Get(_ context.Context, id string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Chat")
	}
	c.ParticipantIDs = append([]string(nil), c.ParticipantIDs...)
	return &c, nil
}

func (m *memChats) Update(_ context.Context, id string, version int64, changes model.Changes, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.matchLocked(id, version)
	if err != nil {
		return err
	}
	if changes.ParticipantIDs != nil {
		c.ParticipantIDs = append([]string(nil), changes.ParticipantIDs...)
	}
	if changes.GroupName != nil {
		c.GroupName = *changes.GroupName
	}
	if changes.GroupAvatar != nil {
		c.GroupAvatar = *changes.GroupAvatar
	}
	c.Version++
	c.UpdateAt = at
	m.chats[id] = c
	return nil
}

func (m *memChats) Delete(_ context.Context, id string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, err := m.matchLocked(id, version); err != nil {
		return err
	}
	delete(m.chats, id)
	return nil
}

func (m *memChats) RecordMessage(_ context.Context, id, senderID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[id]
	if !ok {
		return apperrors.NewPreconditionError(fmt.Sprintf("Chat %s does not exist", id))
	}
	if !c.HasMember(senderID) {
		return apperrors.NewPreconditionError(msgNotMember)
	}
	c.LastMessageAt = &at
	m.chats[id] = c
	return nil
}

func (m *memChats) matchLocked(id string, version int64) (model.Chat, error) {
	c, ok := m.chats[id]
	if !ok {
		return c, apperrors.NewPreconditionError(fmt.Sprintf("Chat %s does not exist", id))
	}
	if c.Version != version {
		return c, apperrors.NewConflictError("modified concurrently")
	}
	return c, nil
}

// bump simulates a concurrent writer.
func (m *memChats) bump(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.chats[id]
	c.Version++
	m.chats[id] = c
}

type memMessages struct {
	mu       sync.Mutex
	messages []model.Message
	err      error
}

func (m *memMessages) Insert(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessages) List(_ context.Context, chatID string, before time.Time, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Message
	for _, msg := range m.messages {
		if msg.ChatID == chatID && (before.IsZero() || msg.CreateAt.Before(before)) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateAt.After(out[j].CreateAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memMessages) Latest(ctx context.Context, chatID string) (*model.Message, error) {
	list, _ := m.List(ctx, chatID, time.Time{}, 1)
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("Message")
	}
	return &list[0], nil
}

func (m *memMessages) DeleteByChat(_ context.Context, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recordedEvents) Publish(_ context.Context, e eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) PublishAndForget(ctx context.Context, e eventbus.Event) {
	_ = r.Publish(ctx, e)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}
