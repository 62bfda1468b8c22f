package usecase

import (
	"context"
	"fmt"

	"aura-backend/internal/activity/config"
	"aura-backend/internal/activity/domain/model"
	"aura-backend/internal/activity/domain/repository"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
)

const msgNotMember = "you are not one of the member in the group"

// RecordedTypes are the bus events written to activity streams.
var RecordedTypes = []string{
	eventbus.EventTypeChatCreated,
	eventbus.EventTypeChatUpdated,
	eventbus.EventTypeChatDeleted,
	eventbus.EventTypeChatMemberAdded,
	eventbus.EventTypeChatMemberKicked,
	eventbus.EventTypeChatMessageSent,
	eventbus.EventTypeEventCreated,
	eventbus.EventTypeEventUpdated,
	eventbus.EventTypeEventDeleted,
	eventbus.EventTypeEventJoined,
	eventbus.EventTypeEventLeft,
}

// MembershipChecker answers whether a user belongs to a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// Subscriber is the part of the event bus the recorder attaches to.
type Subscriber interface {
	SubscribeAll(handler eventbus.Handler, eventTypes ...string)
}

// ActivityQuery selects a group's entries after the Since cursor.
type ActivityQuery struct {
	GroupID string
	Since   string
}

// ActivityUsecaseInterface lists the activity operations exposed over HTTP.
type ActivityUsecaseInterface interface {
	List(ctx context.Context, callerID string, kind model.GroupKind, q ActivityQuery) ([]model.Entry, error)
}

// ActivityUsecase records group events and serves them back to members.
type ActivityUsecase struct {
	store    repository.ActivityStore
	checkers map[model.GroupKind]MembershipChecker
	config   *config.Config
	log      logger.Logger
}

// NewActivityUsecase creates the usecase. checkers decide who may read
// each kind of stream.
func NewActivityUsecase(store repository.ActivityStore, checkers map[model.GroupKind]MembershipChecker, cfg *config.Config, log logger.Logger) *ActivityUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityUsecase{
		store:    store,
		checkers: checkers,
		config:   cfg,
		log:      log.WithComponent("activity"),
	}
}

// Subscribe attaches Record to every recorded event type.
func (uc *ActivityUsecase) Subscribe(bus Subscriber) {
	bus.SubscribeAll(uc.Record, RecordedTypes...)
}

// Record appends a group event to its stream. Deleting a group starts the
// stream's expiry.
func (uc *ActivityUsecase) Record(ctx context.Context, ev eventbus.Event) error {
	var act eventbus.GroupActivity
	switch d := ev.Data().(type) {
	case eventbus.GroupActivity:
		act = d
	case *eventbus.GroupActivity:
		act = *d
	default:
		uc.log.Warnf("ignoring %s event with payload %T", ev.Type(), ev.Data())
		return nil
	}
	if act.GroupID == "" {
		return nil
	}

	entry := model.Entry{
		Type:      ev.Type(),
		GroupID:   act.GroupID,
		ActorID:   act.ActorID,
		TargetID:  act.TargetID,
		Members:   act.Members,
		Extra:     act.Extra,
		Source:    ev.Source(),
		Timestamp: ev.Timestamp(),
	}
	if _, err := uc.store.Append(ctx, entry, uc.config.StreamMaxLen); err != nil {
		return err
	}
	if entry.Terminal() {
		return uc.store.Expire(ctx, act.GroupID, uc.config.DeletedTTL)
	}
	return nil
}

// List returns the caller's view of a group's activity after q.Since.
func (uc *ActivityUsecase) List(ctx context.Context, callerID string, kind model.GroupKind, q ActivityQuery) ([]model.Entry, error) {
	checker, ok := uc.checkers[kind]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown group kind %q", kind))
	}
	member, err := checker.IsMember(ctx, q.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.NewPreconditionError(msgNotMember)
	}
	return uc.store.Since(ctx, q.GroupID, q.Since, uc.config.ReadLimit)
}

// Trim caps every stream at the configured length.
func (uc *ActivityUsecase) Trim(ctx context.Context) error {
	n, err := uc.store.Trim(ctx, uc.config.StreamMaxLen)
	if err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"streams": n}).Debug("activity trim finished")
	return nil
}
