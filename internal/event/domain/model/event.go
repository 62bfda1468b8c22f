package model

import (
	"time"

	idmodel "aura-backend/internal/idgen/domain/model"
	membership "aura-backend/internal/membership/domain/model"
)

// Kind is one of the four event families. Each lives in its own collection.
type Kind string

const (
	KindPast      Kind = "pastEvent"
	KindNow       Kind = "nowEvent"
	KindFuture    Kind = "futureEvent"
	KindReference Kind = "reference"
)

// Kinds lists every kind in route order.
var Kinds = []Kind{KindPast, KindNow, KindFuture, KindReference}

// Collection is the MongoDB collection holding events of this kind.
func (k Kind) Collection() string {
	switch k {
	case KindPast:
		return "pastEvents"
	case KindNow:
		return "nowEvents"
	case KindFuture:
		return "futureEvents"
	}
	return "references"
}

// IDRequest is the allocator request for new ids of this kind.
func (k Kind) IDRequest() idmodel.Request {
	switch k {
	case KindPast:
		return idmodel.PastEventID
	case KindNow:
		return idmodel.NowEventID
	case KindFuture:
		return idmodel.FutureEventID
	}
	return idmodel.ReferenceID
}

// Label names the resource in client-facing messages.
func (k Kind) Label() string {
	if k == KindReference {
		return "Reference"
	}
	return "Event"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPast, KindNow, KindFuture, KindReference:
		return true
	}
	return false
}

// Location is a place picked from location search.
type Location struct {
	ID      string  `json:"id" bson:"id" validate:"required"`
	Name    string  `json:"name" bson:"name" validate:"required"`
	Address string  `json:"address" bson:"address" validate:"required"`
	Lat     float64 `json:"lat" bson:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" bson:"lng" validate:"longitude"`
}

// Participant is a user shown on an event.
type Participant struct {
	ID     string  `json:"id" bson:"id" validate:"required"`
	Name   string  `json:"name" bson:"name" validate:"required"`
	Avatar *string `json:"avatar" bson:"avatar"`
}

// Details are the owner-editable fields. Which of them a kind uses is
// decided by its request type.
type Details struct {
	Title           string        `json:"title" bson:"title"`
	EventType       string        `json:"eventType" bson:"eventType"`
	EventStatus     string        `json:"eventStatus,omitempty" bson:"eventStatus,omitempty"`
	ReferenceName   string        `json:"referenceName,omitempty" bson:"referenceName,omitempty"`
	Location        *Location     `json:"location,omitempty" bson:"location,omitempty"`
	LocationAvatar  string        `json:"locationAvatar,omitempty" bson:"locationAvatar,omitempty"`
	OperationTime   string        `json:"operationTime,omitempty" bson:"operationTime,omitempty"`
	StartDate       int64         `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate         int64         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	MaxParticipants int           `json:"maxParticipants,omitempty" bson:"maxParticipants,omitempty"`
	Participants    []Participant `json:"participants,omitempty" bson:"participants,omitempty"`
	Images          []string      `json:"images,omitempty" bson:"images,omitempty"`
	Image           string        `json:"image,omitempty" bson:"image,omitempty"`
	Desc            string        `json:"desc" bson:"desc"`
}

// Event is a stored event of any kind.
type Event struct {
	ID             string     `json:"id" bson:"_id"`
	Kind           Kind       `json:"kind" bson:"kind"`
	OwnerID        string     `json:"ownerId" bson:"ownerId"`
	Details        `bson:",inline"`
	ParticipantIDs []string   `json:"participantIds" bson:"participantIds"`
	Version        int64      `json:"version" bson:"version"`
	CreateAt       time.Time  `json:"createAt" bson:"createAt"`
	UpdateAt       *time.Time `json:"updateAt,omitempty" bson:"updateAt,omitempty"`
}

// HasParticipant reports whether id takes part in the event.
func (e *Event) HasParticipant(id string) bool {
	return membership.Contains(e.ParticipantIDs, id)
}

// Full reports whether a now event has no free places.
func (e *Event) Full() bool {
	return e.MaxParticipants > 0 && len(e.ParticipantIDs) >= e.MaxParticipants
}

// SetParticipants replaces the participant list and its id index, dropping
// repeated ids.
func (e *Event) SetParticipants(ps []Participant) {
	seen := make(map[string]struct{}, len(ps))
	e.Participants = make([]Participant, 0, len(ps))
	e.ParticipantIDs = make([]string, 0, len(ps))
	for _, p := range ps {
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			continue
		}
		seen[p.ID] = struct{}{}
		e.Participants = append(e.Participants, p)
		e.ParticipantIDs = append(e.ParticipantIDs, p.ID)
	}
}

// Entry projects a now event into a participant's events map.
func (e *Event) Entry() membership.Entry {
	entry := membership.Entry{
		ID:             e.ID,
		ParticipantIDs: append([]string(nil), e.ParticipantIDs...),
		GroupName:      e.Title,
	}
	if len(e.Images) > 0 {
		entry.GroupAvatar = e.Images[0]
	}
	return entry
}

// Comment is a remark left on a future event.
type Comment struct {
	ID        string     `json:"id" bson:"_id"`
	EventID   string     `json:"eventId" bson:"eventId"`
	AuthorID  string     `json:"authorId" bson:"authorId"`
	Name      string     `json:"name" bson:"name"`
	Avatar    string     `json:"avatar" bson:"avatar"`
	Content   string     `json:"content" bson:"content"`
	LikeCount int        `json:"likeCount" bson:"likeCount"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdateAt  *time.Time `json:"updateAt,omitempty" bson:"updateAt,omitempty"`
}

// CommentBody is the editable part of a comment.
type CommentBody struct {
	Name    string `json:"name" validate:"required"`
	Avatar  string `json:"avatar" validate:"required,uri"`
	Content string `json:"content" validate:"required"`
}
