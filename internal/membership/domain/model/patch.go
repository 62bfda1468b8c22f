package model

import "time"

// PatchAction is the shape of a per-user write.
type PatchAction string

const (
	// PatchPut writes the whole entry, creating it if absent.
	PatchPut PatchAction = "put"
	// PatchUpdate changes individual entry fields of an existing entry.
	PatchUpdate PatchAction = "update"
	// PatchRemove deletes the entry.
	PatchRemove PatchAction = "remove"
)

// Patch is a targeted update to one user's entry for one group. Field names in
// Set and Inc are Entry bson names.
type Patch struct {
	UserID  string
	Kind    Kind
	GroupID string
	Action  PatchAction

	// PatchPut
	Entry *Entry

	// PatchUpdate
	Set            map[string]interface{}
	Inc            map[string]int
	AddParticipant string
}

// Apply returns the entry that results from applying p to current. ok is false
// when the entry no longer exists afterwards.
func (p Patch) Apply(current Entry, exists bool) (Entry, bool) {
	switch p.Action {
	case PatchPut:
		if p.Entry == nil {
			return current, exists
		}
		e := *p.Entry
		e.ParticipantIDs = append([]string(nil), p.Entry.ParticipantIDs...)
		return e, true
	case PatchRemove:
		return Entry{}, false
	}

	if !exists {
		return current, false
	}
	e := current
	e.ParticipantIDs = append([]string(nil), current.ParticipantIDs...)
	for field, v := range p.Set {
		setField(&e, field, v)
	}
	for field, n := range p.Inc {
		if field == FieldUnreadCount {
			e.UnreadCount += n
		}
	}
	if p.AddParticipant != "" && !e.HasParticipant(p.AddParticipant) {
		e.ParticipantIDs = append(e.ParticipantIDs, p.AddParticipant)
	}
	return e, true
}

// Entry field names as stored.
const (
	FieldParticipantIDs  = "participantIds"
	FieldGroupName       = "groupName"
	FieldGroupAvatar     = "groupAvatar"
	FieldLastMessage     = "lastMessage"
	FieldLastMessageTime = "lastMessageTime"
	FieldSenderID        = "senderId"
	FieldSenderName      = "senderName"
	FieldSenderAvatar    = "senderAvatar"
	FieldUnreadCount     = "unreadCount"
)

func setField(e *Entry, field string, v interface{}) {
	switch field {
	case FieldParticipantIDs:
		if ids, ok := v.([]string); ok {
			e.ParticipantIDs = append([]string(nil), ids...)
		}
	case FieldGroupName:
		e.GroupName, _ = v.(string)
	case FieldGroupAvatar:
		e.GroupAvatar, _ = v.(string)
	case FieldLastMessage:
		e.LastMessage, _ = v.(string)
	case FieldLastMessageTime:
		switch t := v.(type) {
		case time.Time:
			e.LastMessageTime = &t
		case *time.Time:
			e.LastMessageTime = t
		}
	case FieldSenderID:
		e.SenderID, _ = v.(string)
	case FieldSenderName:
		e.SenderName, _ = v.(string)
	case FieldSenderAvatar:
		e.SenderAvatar, _ = v.(string)
	case FieldUnreadCount:
		e.UnreadCount, _ = v.(int)
	}
}
