package model

import (
	"strings"
	"time"
)

// Entry is one recorded change to a chat or now event. ID is the stream
// entry id and is the cursor clients pass back as since.
type Entry struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	GroupID   string            `json:"groupId"`
	ActorID   string            `json:"actorId"`
	TargetID  string            `json:"targetId,omitempty"`
	Members   []string          `json:"members,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	Source    string            `json:"source"`
	Timestamp time.Time         `json:"timestamp"`
}

// Terminal reports whether the entry records the group's deletion.
func (e Entry) Terminal() bool {
	return strings.HasSuffix(e.Type, ".deleted")
}

// StreamKey names the stream holding groupID's activity.
func StreamKey(groupID string) string {
	return "activity:" + groupID
}

// GroupKind says which kind of group a stream belongs to.
type GroupKind string

const (
	GroupChat  GroupKind = "chat"
	GroupEvent GroupKind = "event"
)
