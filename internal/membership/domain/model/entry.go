package model

import (
	"time"
)

// Kind selects which per-user map a group lives in.
type Kind string

const (
	KindChat  Kind = "chat"
	KindEvent Kind = "event"
)

// Field is the user document field holding entries of this kind.
func (k Kind) Field() string {
	if k == KindEvent {
		return "events"
	}
	return "chats"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindChat || k == KindEvent
}

// Entry is one user's copy of a group's shared state.
type Entry struct {
	ID              string     `bson:"id" json:"id"`
	ParticipantIDs  []string   `bson:"participantIds" json:"participantIds"`
	GroupName       string     `bson:"groupName,omitempty" json:"groupName,omitempty"`
	GroupAvatar     string     `bson:"groupAvatar,omitempty" json:"groupAvatar,omitempty"`
	LastMessage     string     `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `bson:"lastMessageTime,omitempty" json:"lastMessageTime,omitempty"`
	SenderID        string     `bson:"senderId,omitempty" json:"senderId,omitempty"`
	SenderName      string     `bson:"senderName,omitempty" json:"senderName,omitempty"`
	SenderAvatar    string     `bson:"senderAvatar,omitempty" json:"senderAvatar,omitempty"`
	UnreadCount     int        `bson:"unreadCount" json:"unreadCount"`
}

// HasParticipant reports whether id is listed in the entry.
func (e Entry) HasParticipant(id string) bool {
	return Contains(e.ParticipantIDs, id)
}

// Member is the part of a user document the mutator reads.
type Member struct {
	ID     string           `bson:"_id" json:"id"`
	Chats  map[string]Entry `bson:"chats,omitempty" json:"chats,omitempty"`
	Events map[string]Entry `bson:"events,omitempty" json:"events,omitempty"`
}

// Entries returns the map for kind.
func (m *Member) Entries(kind Kind) map[string]Entry {
	if kind == KindEvent {
		return m.Events
	}
	return m.Chats
}

// Entry returns the member's copy of groupID.
func (m *Member) Entry(kind Kind, groupID string) (Entry, bool) {
	e, ok := m.Entries(kind)[groupID]
	return e, ok
}

// Contains reports whether ids holds id.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Dedupe returns ids without empty strings or repeats, keeping first-seen order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Without returns ids with every occurrence of id removed.
func Without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// SameSet reports whether a and b contain the same ids, ignoring order and repeats.
func SameSet(a, b []string) bool {
	a, b = Dedupe(a), Dedupe(b)
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
