package model

import (
	"time"

	membership "aura-backend/internal/membership/domain/model"
)

// Chat is the authoritative record of a group chat. Every member also holds
// a denormalized copy in their user document.
type Chat struct {
	ID             string     `json:"id" bson:"_id"`
	ParticipantIDs []string   `json:"participantIds" bson:"participantIds"`
	GroupName      string     `json:"groupName,omitempty" bson:"groupName,omitempty"`
	GroupAvatar    string     `json:"groupAvatar,omitempty" bson:"groupAvatar,omitempty"`
	OwnerID        string     `json:"ownerId" bson:"ownerId"`
	Version        int64      `json:"version" bson:"version"`
	LastMessageAt  *time.Time `json:"lastMessageAt,omitempty" bson:"lastMessageAt,omitempty"`
	CreateAt       time.Time  `json:"createAt" bson:"createAt"`
	UpdateAt       time.Time  `json:"updateAt" bson:"updateAt"`
}

// HasMember reports whether id is a participant.
func (c *Chat) HasMember(id string) bool {
	return membership.Contains(c.ParticipantIDs, id)
}

// Changes is a versioned update to a chat. Nil fields are left as they are.
type Changes struct {
	ParticipantIDs []string
	GroupName      *string
	GroupAvatar    *string
}

// Message is one chat message.
type Message struct {
	ID           string    `json:"id" bson:"_id"`
	ChatID       string    `json:"chatId" bson:"chatId"`
	SenderID     string    `json:"senderId" bson:"senderId"`
	SenderName   string    `json:"senderName,omitempty" bson:"senderName,omitempty"`
	SenderAvatar string    `json:"senderAvatar,omitempty" bson:"senderAvatar,omitempty"`
	Message      string    `json:"message" bson:"message"`
	CreateAt     time.Time `json:"createAt" bson:"createAt"`
}

// Entry projects the chat into a member's chat map. Unread state and the
// last-message preview are filled by the caller.
func (c *Chat) Entry() membership.Entry {
	return membership.Entry{
		ID:             c.ID,
		ParticipantIDs: append([]string(nil), c.ParticipantIDs...),
		GroupName:      c.GroupName,
		GroupAvatar:    c.GroupAvatar,
	}
}
