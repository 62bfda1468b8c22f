package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura-backend/internal/event/config"
	"aura-backend/internal/event/domain/model"
	"aura-backend/internal/event/domain/repository"
	idusecase "aura-backend/internal/idgen/usecase"
	memmodel "aura-backend/internal/membership/domain/model"
	memusecase "aura-backend/internal/membership/usecase"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
)

const (
	msgAlreadyJoined  = "You already joined this event"
	msgEventFull      = "Event is full"
	msgNotParticipant = "You are not a participant of this event"
	msgLastToLeave    = "the last participant cannot leave, delete the event instead"
)

// EventUsecaseInterface lists the event operations exposed over HTTP.
type EventUsecaseInterface interface {
	CreateEvent(ctx context.Context, callerID string, kind model.Kind, in Input, owner *Owner) (*model.Event, error)
	UpdateEvent(ctx context.Context, callerID string, kind model.Kind, id string, in Input) (*model.Event, error)
	DeleteEvent(ctx context.Context, callerID string, kind model.Kind, id string) error
	GetEvent(ctx context.Context, callerID string, kind model.Kind, id string) (*model.Event, error)
	JoinNowEvent(ctx context.Context, callerID string, req JoinRequest) (*model.Event, error)
	LeaveNowEvent(ctx context.Context, callerID, id string) error
	CreateComment(ctx context.Context, callerID string, req CreateCommentRequest) (*model.Comment, error)
	UpdateComment(ctx context.Context, callerID string, req UpdateCommentRequest) error
	DeleteComment(ctx context.Context, callerID, commentID string) error
	ListComments(ctx context.Context, q CommentsQuery) ([]model.Comment, error)
	IsMember(ctx context.Context, eventID, userID string) (bool, error)
}

// EventUsecase implements events of every kind. Now events keep a copy in
// each participant's events map through the membership mutator.
type EventUsecase struct {
	events   repository.EventRepository
	comments repository.CommentRepository
	mutator  memusecase.Mutator
	ids      idusecase.Allocator
	bus      eventbus.Publisher
	config   *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewEventUsecase creates the usecase.
func NewEventUsecase(
	events repository.EventRepository,
	comments repository.CommentRepository,
	mutator memusecase.Mutator,
	ids idusecase.Allocator,
	bus eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) *EventUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &EventUsecase{
		events:   events,
		comments: comments,
		mutator:  mutator,
		ids:      ids,
		bus:      bus,
		config:   cfg,
		log:      log.WithComponent("event"),
		now:      time.Now,
	}
}

// CreateEvent stores a new event owned by the caller.
func (uc *EventUsecase) CreateEvent(ctx context.Context, callerID string, kind model.Kind, in Input, owner *Owner) (*model.Event, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown event kind %q", kind))
	}

	ev := &model.Event{
		Kind:     kind,
		OwnerID:  callerID,
		Details:  in.Details(),
		Version:  1,
		CreateAt: uc.now().UTC(),
	}
	switch kind {
	case model.KindPast:
		if owner == nil {
			return nil, apperrors.NewValidationError(`"owner" is required`)
		}
		ev.SetParticipants([]model.Participant{{ID: callerID, Name: owner.Name, Avatar: owner.Avatar}})
	case model.KindNow, model.KindReference:
		ev.SetParticipants(ev.Participants)
		if err := uc.checkCapacity(ev); err != nil {
			return nil, err
		}
	default:
		ev.ParticipantIDs = []string{}
	}

	id, err := uc.ids.Allocate(ctx, kind.IDRequest())
	if err != nil {
		return nil, err
	}
	ev.ID = id

	if kind != model.KindNow {
		if err := uc.events.Create(ctx, ev); err != nil {
			return nil, err
		}
		uc.log.WithContext(ctx).WithFields(map[string]interface{}{"kind": string(kind), "eventId": id}).Info("Event created")
		return ev, nil
	}

	_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:              memmodel.KindEvent,
		GroupID:           id,
		ActorID:           callerID,
		ParticipantIDs:    ev.ParticipantIDs,
		AllowOutsideActor: true,
		Op:                memusecase.Create{Template: ev.Entry()},
		Authority: func(ctx context.Context) error {
			return uc.events.Create(ctx, ev)
		},
	})
	if err != nil {
		if !apperrors.IsPartialFanOut(err) {
			if derr := uc.events.Delete(context.WithoutCancel(ctx), kind, id, ev.Version); derr != nil && !apperrors.IsNotFound(derr) {
				uc.log.WithContext(ctx).WithFields(map[string]interface{}{"kind": string(kind), "eventId": id}).
					Warnf("event record left behind after failed create: %v", derr)
			}
		}
		return nil, err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"kind": string(kind), "eventId": id, "participants": len(ev.ParticipantIDs)}).
		Info("Event created")
	uc.publish(ctx, eventbus.EventTypeEventCreated, ev, callerID, "")
	return ev, nil
}

// UpdateEvent replaces the owner-editable fields. For now events the new
// participant list is fanned out: dropped users lose their copy and added
// users get one.
func (uc *EventUsecase) UpdateEvent(ctx context.Context, callerID string, kind model.Kind, id string, in Input) (*model.Event, error) {
	ev, err := uc.loadOwned(ctx, callerID, kind, id)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	next := *ev
	next.Details = in.Details()
	next.Version = ev.Version + 1
	next.UpdateAt = &now
	switch kind {
	case model.KindNow, model.KindReference:
		next.SetParticipants(next.Participants)
		if err := uc.checkCapacity(&next); err != nil {
			return nil, err
		}
	default:
		next.Participants = ev.Participants
	}

	if kind != model.KindNow {
		if err := uc.events.Replace(ctx, &next, ev.Version); err != nil {
			return nil, err
		}
		return &next, nil
	}

	_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:              memmodel.KindEvent,
		GroupID:           id,
		ActorID:           callerID,
		ParticipantIDs:    ev.ParticipantIDs,
		AllowOutsideActor: true,
		Op:                memusecase.ReplaceMembers{NewParticipantIDs: next.ParticipantIDs, Template: next.Entry()},
		Authority: func(ctx context.Context) error {
			return uc.events.Replace(ctx, &next, ev.Version)
		},
	})
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"eventId": id, "participants": len(next.ParticipantIDs)}).Info("Event updated")
	uc.publish(ctx, eventbus.EventTypeEventUpdated, &next, callerID, "")
	return &next, nil
}

// DeleteEvent removes an event. Now events are also removed from every
// participant; future events take their comments with them.
func (uc *EventUsecase) DeleteEvent(ctx context.Context, callerID string, kind model.Kind, id string) error {
	ev, err := uc.loadOwned(ctx, callerID, kind, id)
	if err != nil {
		return err
	}

	if kind == model.KindNow {
		_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
			Kind:              memmodel.KindEvent,
			GroupID:           id,
			ActorID:           callerID,
			ParticipantIDs:    ev.ParticipantIDs,
			AllowOutsideActor: true,
			Op:                memusecase.Delete{},
			Authority: func(ctx context.Context) error {
				return uc.events.Delete(ctx, kind, id, ev.Version)
			},
		})
	} else {
		err = uc.events.Delete(ctx, kind, id, ev.Version)
	}
	if err != nil {
		return err
	}

	if kind == model.KindFuture {
		if err := uc.comments.DeleteByEvent(ctx, id); err != nil {
			uc.log.WithContext(ctx).WithFields(map[string]interface{}{"eventId": id}).
				Warnf("event deleted but its comments were not: %v", err)
		}
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"kind": string(kind), "eventId": id}).Info("Event deleted")
	if kind == model.KindNow {
		uc.publish(ctx, eventbus.EventTypeEventDeleted, ev, callerID, "")
	}
	return nil
}

// GetEvent returns one event. Past events and references are visible to
// their participants only.
func (uc *EventUsecase) GetEvent(ctx context.Context, callerID string, kind model.Kind, id string) (*model.Event, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown event kind %q", kind))
	}
	ev, err := uc.events.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if kind == model.KindPast || kind == model.KindReference {
		if ev.OwnerID != callerID && !ev.HasParticipant(callerID) {
			return nil, apperrors.NewAuthorizationError("Forbidden: " + msgNotParticipant)
		}
	}
	return ev, nil
}

// JoinNowEvent adds the caller to a now event that has room.
func (uc *EventUsecase) JoinNowEvent(ctx context.Context, callerID string, req JoinRequest) (*model.Event, error) {
	ev, err := uc.events.Get(ctx, model.KindNow, req.ID)
	if err != nil {
		return nil, err
	}
	if ev.HasParticipant(callerID) {
		return nil, apperrors.NewPreconditionError(msgAlreadyJoined)
	}
	if ev.Full() {
		return nil, apperrors.NewPreconditionError(msgEventFull)
	}

	now := uc.now().UTC()
	next := *ev
	next.SetParticipants(append(append([]model.Participant(nil), ev.Participants...), model.Participant{
		ID: callerID, Name: req.Participant.Name, Avatar: req.Participant.Avatar,
	}))
	next.Version = ev.Version + 1
	next.UpdateAt = &now

	_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:              memmodel.KindEvent,
		GroupID:           ev.ID,
		ActorID:           callerID,
		ParticipantIDs:    ev.ParticipantIDs,
		AllowOutsideActor: true,
		Op:                memusecase.AddMember{UserID: callerID},
		Authority: func(ctx context.Context) error {
			return uc.events.Replace(ctx, &next, ev.Version)
		},
	})
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"eventId": ev.ID}).Info("Joined event")
	uc.publish(ctx, eventbus.EventTypeEventJoined, &next, callerID, callerID)
	return &next, nil
}

// LeaveNowEvent removes the caller and their copy of the event.
func (uc *EventUsecase) LeaveNowEvent(ctx context.Context, callerID, id string) error {
	ev, err := uc.events.Get(ctx, model.KindNow, id)
	if err != nil {
		return err
	}
	if !ev.HasParticipant(callerID) {
		return apperrors.NewPreconditionError(msgNotParticipant)
	}
	if len(ev.ParticipantIDs) == 1 {
		return apperrors.NewPreconditionError(msgLastToLeave)
	}

	now := uc.now().UTC()
	next := *ev
	remaining := make([]model.Participant, 0, len(ev.Participants))
	for _, p := range ev.Participants {
		if p.ID != callerID {
			remaining = append(remaining, p)
		}
	}
	next.SetParticipants(remaining)
	next.Version = ev.Version + 1
	next.UpdateAt = &now

	_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:           memmodel.KindEvent,
		GroupID:        id,
		ActorID:        callerID,
		ParticipantIDs: ev.ParticipantIDs,
		Op:             memusecase.KickMember{UserID: callerID, PurgeKicked: true},
		Authority: func(ctx context.Context) error {
			return uc.events.Replace(ctx, &next, ev.Version)
		},
	})
	if err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"eventId": id}).Info("Left event")
	uc.publish(ctx, eventbus.EventTypeEventLeft, ev, callerID, callerID)
	return nil
}

// IsMember reports whether userID takes part in the now event eventID.
func (uc *EventUsecase) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	ev, err := uc.events.Get(ctx, model.KindNow, eventID)
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ev.HasParticipant(userID), nil
}

func (uc *EventUsecase) loadOwned(ctx context.Context, callerID string, kind model.Kind, id string) (*model.Event, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown event kind %q", kind))
	}
	ev, err := uc.events.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ev.OwnerID != callerID {
		return nil, apperrors.NewAuthorizationError(fmt.Sprintf("Forbidden: You are not the owner of this %s", strings.ToLower(kind.Label())))
	}
	return ev, nil
}

func (uc *EventUsecase) checkCapacity(ev *model.Event) error {
	if ev.MaxParticipants > uc.config.MaxParticipantsCap {
		return apperrors.NewValidationError(fmt.Sprintf("maxParticipants cannot exceed %d", uc.config.MaxParticipantsCap))
	}
	if len(ev.ParticipantIDs) > ev.MaxParticipants {
		return apperrors.NewValidationError("participants exceed maxParticipants")
	}
	return nil
}

func (uc *EventUsecase) publish(ctx context.Context, eventType string, ev *model.Event, actorID, targetID string) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewGroupEvent(eventType, "event", eventbus.GroupActivity{
		GroupID:  ev.ID,
		ActorID:  actorID,
		TargetID: targetID,
		Members:  append([]string(nil), ev.ParticipantIDs...),
		Extra:    map[string]string{"title": ev.Title},
	}))
}

var _ EventUsecaseInterface = (*EventUsecase)(nil)
