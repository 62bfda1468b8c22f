package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aura-backend/internal/auth/domain/model"
	"aura-backend/internal/auth/domain/repository"
	idmodel "aura-backend/internal/idgen/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*model.User
	fail  error
	calls int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, u := range m.byID {
		if u.PhoneNo == user.PhoneNo {
			return repository.ErrDuplicatePhone
		}
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("User")
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.ID == id })
}

func (m *memUsers) GetByPhone(_ context.Context, phoneNo string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.PhoneNo == phoneNo })
}

func (m *memUsers) GetByToken(_ context.Context, token string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return token != "" && u.Token == token })
}

func (m *memUsers) SetToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("User")
	}
	u.Token = token
	return nil
}

func (m *memUsers) ClearToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok && u.Token == token {
		u.Token = ""
	}
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, p model.Profile, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("User")
	}
	u.Name, u.Sex, u.Avatar, u.UpdateAt = p.Name, p.Sex, p.Avatar, &at
	return nil
}

type otpEntry struct {
	hash     string
	failures int64
	expires  time.Time
}

type memOTPs struct {
	mu      sync.Mutex
	entries map[string]*otpEntry
	now     func() time.Time
}

func newMemOTPs(now func() time.Time) *memOTPs {
	return &memOTPs{entries: map[string]*otpEntry{}, now: now}
}

func (m *memOTPs) Save(_ context.Context, phone, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[phone] = &otpEntry{hash: hash, expires: m.now().Add(ttl)}
	return nil
}

func (m *memOTPs) Get(_ context.Context, phone string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[phone]
	if !ok || !m.now().Before(e.expires) {
		return "", repository.ErrOTPNotFound
	}
	return e.hash, nil
}

func (m *memOTPs) RecordFailure(_ context.Context, phone string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[phone]
	if !ok {
		return 1, nil
	}
	e.failures++
	return e.failures, nil
}

func (m *memOTPs) Delete(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, phone)
	return nil
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memBlacklist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	if ttl > 0 {
		m.revoked[id] = ttl
	}
	return nil
}

func (m *memBlacklist) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

// fixedOTP always generates the same code and stores it with a marker
// instead of a real hash.
type fixedOTP struct {
	code string
}

func (f fixedOTP) Generate() (string, error)        { return f.code, nil }
func (f fixedOTP) Hash(code string) (string, error) { return "h:" + code, nil }
func (f fixedOTP) Matches(hash, code string) bool   { return hash == "h:"+code }

type seqIDs struct {
	mu  sync.Mutex
	n   int
	err error
}

func (s *seqIDs) Allocate(_ context.Context, req idmodel.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.n++
	return fmt.Sprintf("%s2510%09d", req.Prefix, s.n), nil
}
