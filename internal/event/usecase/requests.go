package usecase

import (
	"aura-backend/internal/event/domain/model"
)

// Input is a kind-specific create or update body.
type Input interface {
	Details() model.Details
}

// Owner is the caller as shown on a past event.
type Owner struct {
	Name   string  `json:"name" validate:"required"`
	Avatar *string `json:"avatar"`
}

// PastEventData is the editable body of a past event.
type PastEventData struct {
	Title     string          `json:"title" validate:"required"`
	Images    []string        `json:"images"`
	Desc      string          `json:"desc" validate:"required"`
	EventType string          `json:"eventType" validate:"required"`
	Location  *model.Location `json:"location" validate:"required"`
	StartDate int64           `json:"startDate" validate:"required"`
	EndDate   int64           `json:"endDate" validate:"required,gtefield=StartDate"`
}

func (d PastEventData) Details() model.Details {
	return model.Details{
		Title:     d.Title,
		Images:    d.Images,
		Desc:      d.Desc,
		EventType: d.EventType,
		Location:  d.Location,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
	}
}

type CreatePastEventRequest struct {
	Owner Owner         `json:"owner" validate:"required"`
	Data  PastEventData `json:"data" validate:"required"`
}

type UpdatePastEventRequest struct {
	ID   string        `json:"id" validate:"required"`
	Data PastEventData `json:"data" validate:"required"`
}

// NowEventData is the editable body of a now event. Participants replace
// the current list on update.
type NowEventData struct {
	Title           string              `json:"title" validate:"required"`
	EventType       string              `json:"eventType" validate:"required"`
	EventStatus     string              `json:"eventStatus" validate:"required"`
	Location        *model.Location     `json:"location" validate:"required"`
	StartDate       int64               `json:"startDate" validate:"required"`
	EndDate         int64               `json:"endDate" validate:"required,gtefield=StartDate"`
	MaxParticipants int                 `json:"maxParticipants" validate:"required,min=1"`
	Participants    []model.Participant `json:"participants" validate:"required,min=1,dive"`
	Images          []string            `json:"images"`
	Desc            string              `json:"desc" validate:"required"`
}

func (d NowEventData) Details() model.Details {
	return model.Details{
		Title:           d.Title,
		EventType:       d.EventType,
		EventStatus:     d.EventStatus,
		Location:        d.Location,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		MaxParticipants: d.MaxParticipants,
		Participants:    d.Participants,
		Images:          d.Images,
		Desc:            d.Desc,
	}
}

type CreateNowEventRequest struct {
	Data NowEventData `json:"data" validate:"required"`
}

type UpdateNowEventRequest struct {
	ID   string       `json:"id" validate:"required"`
	Data NowEventData `json:"data" validate:"required"`
}

// FutureEventData is the editable body of a future event.
type FutureEventData struct {
	Title          string          `json:"title" validate:"required"`
	Images         []string        `json:"images"`
	Desc           string          `json:"desc" validate:"required"`
	EventType      string          `json:"eventType" validate:"required"`
	LocationAvatar string          `json:"locationAvatar"`
	Location       *model.Location `json:"location" validate:"required"`
	OperationTime  string          `json:"operationTime"`
}

func (d FutureEventData) Details() model.Details {
	return model.Details{
		Title:          d.Title,
		Images:         d.Images,
		Desc:           d.Desc,
		EventType:      d.EventType,
		LocationAvatar: d.LocationAvatar,
		Location:       d.Location,
		OperationTime:  d.OperationTime,
	}
}

type CreateFutureEventRequest struct {
	Data FutureEventData `json:"data" validate:"required"`
}

type UpdateFutureEventRequest struct {
	ID   string          `json:"id" validate:"required"`
	Data FutureEventData `json:"data" validate:"required"`
}

// ReferenceData is a reusable event template.
type ReferenceData struct {
	ReferenceName   string              `json:"referenceName" validate:"required"`
	Title           string              `json:"title" validate:"required"`
	EventType       string              `json:"eventType" validate:"required"`
	EventStatus     string              `json:"eventStatus" validate:"required"`
	Location        *model.Location     `json:"location" validate:"required"`
	Participants    []model.Participant `json:"participants" validate:"required,dive"`
	ParticipantIDs  []string            `json:"participantIds" validate:"required"`
	MaxParticipants int                 `json:"maxParticipants" validate:"required,min=1"`
	Image           string              `json:"image"`
	Desc            string              `json:"desc" validate:"required"`
}

// Details ignores ParticipantIDs. The id list is always derived from
// Participants so the two cannot disagree.
func (d ReferenceData) Details() model.Details {
	return model.Details{
		ReferenceName:   d.ReferenceName,
		Title:           d.Title,
		EventType:       d.EventType,
		EventStatus:     d.EventStatus,
		Location:        d.Location,
		Participants:    d.Participants,
		MaxParticipants: d.MaxParticipants,
		Image:           d.Image,
		Desc:            d.Desc,
	}
}

type CreateReferenceRequest struct {
	Data ReferenceData `json:"data" validate:"required"`
}

type UpdateReferenceRequest struct {
	ID   string        `json:"id" validate:"required"`
	Data ReferenceData `json:"data" validate:"required"`
}

// IDRequest identifies an event.
type IDRequest struct {
	ID string `json:"id" query:"id" validate:"required"`
}

// JoinRequest is the body of POST /nowEvent/join.
type JoinRequest struct {
	ID          string `json:"id" validate:"required"`
	Participant Owner  `json:"participant" validate:"required"`
}

type CreateCommentRequest struct {
	EventID string            `json:"eventId" validate:"required"`
	Comment model.CommentBody `json:"comment" validate:"required"`
}

type UpdateCommentRequest struct {
	CommentID string            `json:"commentId" validate:"required"`
	Comment   model.CommentBody `json:"comment" validate:"required"`
}

type CommentIDRequest struct {
	CommentID string `json:"commentId" validate:"required"`
}

type CommentsQuery struct {
	EventID string `json:"eventId" query:"eventId" validate:"required"`
	Limit   int    `json:"limit" query:"limit" validate:"omitempty,min=1,max=200"`
}
