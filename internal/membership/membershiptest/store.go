// Package membershiptest provides an in-memory membership store for tests.
package membershiptest

import (
	"context"
	"sync"

	"aura-backend/internal/membership/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

// MemStore keeps user documents in memory. RunInTransaction holds a store-wide
// lock for the whole of fn, snapshots the documents and restores them if fn
// fails, so transactions never interleave. Writes made outside a transaction
// are not protected from a failing one.
type MemStore struct {
	txMu    sync.Mutex
	mu      sync.Mutex
	users   map[string]*model.Member
	failFor map[string]error
	txCount int
}

// NewMemStore creates a store holding empty documents for ids.
func NewMemStore(ids ...string) *MemStore {
	s := &MemStore{users: map[string]*model.Member{}, failFor: map[string]error{}}
	s.AddUsers(ids...)
	return s
}

// AddUsers creates empty documents for ids that do not exist yet.
func (s *MemStore) AddUsers(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			s.users[id] = &model.Member{ID: id, Chats: map[string]model.Entry{}, Events: map[string]model.Entry{}}
		}
	}
}

// Fail makes every later write to userID return err. A nil err clears it.
func (s *MemStore) Fail(userID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failFor, userID)
		return
	}
	s.failFor[userID] = err
}

// TxCount is the number of RunInTransaction calls so far.
func (s *MemStore) TxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

// Entry returns userID's copy of a group.
func (s *MemStore) Entry(kind model.Kind, userID, groupID string) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.Entry{}, false
	}
	e, ok := u.Entries(kind)[groupID]
	return e, ok
}

// Put stores e in userID's map, creating the user if needed.
func (s *MemStore) Put(kind model.Kind, userID string, e model.Entry) {
	s.AddUsers(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].Entries(kind)[e.ID] = e
}

func (s *MemStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemStore) LoadMembers(ctx context.Context, kind model.Kind, ids []string) (map[string]*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]*model.Member{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = cloneMember(u)
		}
	}
	return out, nil
}

func (s *MemStore) ApplyPatch(ctx context.Context, p model.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[p.UserID]; err != nil {
		return err
	}
	u, ok := s.users[p.UserID]
	if !ok {
		return apperrors.NewNotFoundError("User " + p.UserID)
	}
	entries := u.Entries(p.Kind)
	current, exists := entries[p.GroupID]
	if p.Action == model.PatchUpdate && !exists {
		return apperrors.NewPreconditionError("entry vanished")
	}
	next, keep := p.Apply(current, exists)
	if keep {
		entries[p.GroupID] = next
	} else {
		delete(entries, p.GroupID)
	}
	return nil
}

func (s *MemStore) cloneLocked() map[string]*model.Member {
	out := make(map[string]*model.Member, len(s.users))
	for id, u := range s.users {
		out[id] = cloneMember(u)
	}
	return out
}

func cloneMember(u *model.Member) *model.Member {
	c := &model.Member{ID: u.ID, Chats: map[string]model.Entry{}, Events: map[string]model.Entry{}}
	for k, e := range u.Chats {
		e.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
		c.Chats[k] = e
	}
	for k, e := range u.Events {
		e.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
		c.Events[k] = e
	}
	return c
}
