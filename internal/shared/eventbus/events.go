package eventbus

import "time"

// Group lifecycle event types.
const (
	EventTypeChatCreated      = "chat.created"
	EventTypeChatUpdated      = "chat.updated"
	EventTypeChatDeleted      = "chat.deleted"
	EventTypeChatMemberAdded  = "chat.member_added"
	EventTypeChatMemberKicked = "chat.member_kicked"
	EventTypeChatMessageSent  = "chat.message_sent"

	EventTypeEventCreated = "event.created"
	EventTypeEventUpdated = "event.updated"
	EventTypeEventDeleted = "event.deleted"
	EventTypeEventJoined  = "event.joined"
	EventTypeEventLeft    = "event.left"

	EventTypeUserLoggedIn  = "user.logged_in"
	EventTypeUserLoggedOut = "user.logged_out"
)

// GroupActivity is the payload of every chat.* and event.* event.
type GroupActivity struct {
	GroupID  string            `json:"groupId"`
	ActorID  string            `json:"actorId"`
	TargetID string            `json:"targetId,omitempty"`
	Members  []string          `json:"members,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewBasicEvent creates a new basic event
func NewBasicEvent(eventType string, data interface{}) Event {
	return NewBasicEventWithSource(eventType, data, "unknown")
}

// NewBasicEventWithSource creates a new basic event with source
func NewBasicEventWithSource(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now().UTC(),
		source:    source,
	}
}

// NewGroupEvent builds a group lifecycle event.
func NewGroupEvent(eventType, source string, activity GroupActivity) Event {
	return NewBasicEventWithSource(eventType, activity, source)
}

func (e *BasicEvent) Type() string         { return e.eventType }
func (e *BasicEvent) Data() interface{}    { return e.data }
func (e *BasicEvent) Timestamp() time.Time { return e.timestamp }
func (e *BasicEvent) Source() string       { return e.source }
