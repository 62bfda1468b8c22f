package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"aura-backend/internal/chat/config"
	"aura-backend/internal/chat/domain/model"
	"aura-backend/internal/chat/domain/repository"
	idmodel "aura-backend/internal/idgen/domain/model"
	idusecase "aura-backend/internal/idgen/usecase"
	memmodel "aura-backend/internal/membership/domain/model"
	memrepo "aura-backend/internal/membership/domain/repository"
	memusecase "aura-backend/internal/membership/usecase"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
)

// ChatUsecaseInterface lists the chat operations exposed over HTTP.
type ChatUsecaseInterface interface {
	CreateChat(ctx context.Context, callerID string, req CreateChatRequest) (*model.Chat, error)
	UpdateChat(ctx context.Context, callerID string, req UpdateChatRequest) error
	DeleteChat(ctx context.Context, callerID string, req DeleteChatRequest) error
	SendMessage(ctx context.Context, callerID string, req SendMessageRequest) (*model.Message, error)
	AddMember(ctx context.Context, callerID string, req AddMemberRequest) error
	KickMember(ctx context.Context, callerID string, req KickMemberRequest) error
	MarkRead(ctx context.Context, callerID, chatID string) error
	ListChats(ctx context.Context, callerID string) ([]memmodel.Entry, error)
	ListMessages(ctx context.Context, callerID string, q MessagesQuery) ([]model.Message, error)
	Repair(ctx context.Context, callerID string, req RepairRequest) (*memusecase.Result, error)
	IsMember(ctx context.Context, chatID, userID string) (bool, error)
}

// ChatUsecase implements chat operations on top of the membership fan-out.
type ChatUsecase struct {
	chats    repository.ChatRepository
	messages repository.MessageRepository
	mutator  memusecase.Mutator
	members  memrepo.Store
	ids      idusecase.Allocator
	events   eventbus.Publisher
	config   *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewChatUsecase creates the usecase.
func NewChatUsecase(
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	mutator memusecase.Mutator,
	members memrepo.Store,
	ids idusecase.Allocator,
	events eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) *ChatUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatUsecase{
		chats:    chats,
		messages: messages,
		mutator:  mutator,
		members:  members,
		ids:      ids,
		events:   events,
		config:   cfg,
		log:      log.WithComponent("chat"),
		now:      time.Now,
	}
}

// CreateChat allocates an id, records the chat and gives every participant a copy.
func (uc *ChatUsecase) CreateChat(ctx context.Context, callerID string, req CreateChatRequest) (*model.Chat, error) {
	participants := memmodel.Dedupe(append(append([]string(nil), req.ParticipantIDs...), callerID))

	id, err := uc.ids.Allocate(ctx, idmodel.ChatID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	chat := &model.Chat{
		ID:             id,
		ParticipantIDs: participants,
		GroupName:      req.GroupName,
		GroupAvatar:    req.GroupAvatar,
		OwnerID:        callerID,
		Version:        1,
		CreateAt:       now,
		UpdateAt:       now,
	}

	_, err = uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:           memmodel.KindChat,
		GroupID:        id,
		ActorID:        callerID,
		ParticipantIDs: participants,
		Op:             memusecase.Create{Template: chat.Entry()},
		Authority: func(ctx context.Context) error {
			return uc.chats.Create(ctx, chat)
		},
	})
	if err != nil {
		if !apperrors.IsPartialFanOut(err) {
			// Without transactions the record may already exist.
			if derr := uc.chats.Delete(context.WithoutCancel(ctx), id, chat.Version); derr != nil && !chatGone(derr) {
				uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": id}).
					Warnf("chat record left behind after failed create: %v", derr)
			}
		}
		return nil, err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": id, "participants": len(participants)}).Info("Chat created")
	uc.publish(ctx, eventbus.EventTypeChatCreated, chat, callerID, "", nil)
	return chat, nil
}

// UpdateChat changes the group name and/or avatar.
func (uc *ChatUsecase) UpdateChat(ctx context.Context, callerID string, req UpdateChatRequest) error {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, req.ParticipantIDs)
	if err != nil {
		return err
	}

	changes := model.Changes{GroupName: req.Data.GroupName, GroupAvatar: req.Data.GroupAvatar}
	_, err = uc.apply(ctx, chat, callerID,
		memusecase.Update{GroupName: req.Data.GroupName, GroupAvatar: req.Data.GroupAvatar},
		func(ctx context.Context) error {
			return uc.chats.Update(ctx, chat.ID, chat.Version, changes, uc.now().UTC())
		})
	if err != nil {
		return err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID}).Info("Chat updated")
	uc.publish(ctx, eventbus.EventTypeChatUpdated, chat, callerID, "", nil)
	return nil
}

// DeleteChat removes the chat from every member and deletes its messages.
func (uc *ChatUsecase) DeleteChat(ctx context.Context, callerID string, req DeleteChatRequest) error {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, req.ParticipantIDs)
	if err != nil {
		return err
	}

	_, err = uc.apply(ctx, chat, callerID, memusecase.Delete{}, func(ctx context.Context) error {
		return uc.chats.Delete(ctx, chat.ID, chat.Version)
	})
	if err != nil {
		return err
	}

	if err := uc.messages.DeleteByChat(ctx, chat.ID); err != nil {
		uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID}).
			Warnf("chat deleted but its messages were not: %v", err)
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID}).Info("Chat deleted")
	uc.publish(ctx, eventbus.EventTypeChatDeleted, chat, callerID, "", nil)
	return nil
}

// SendMessage stores the message and updates every member's preview and unread count.
func (uc *ChatUsecase) SendMessage(ctx context.Context, callerID string, req SendMessageRequest) (*model.Message, error) {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, req.ReceiverIDs)
	if err != nil {
		return nil, err
	}

	id, err := uc.ids.Allocate(ctx, idmodel.MessageID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	msg := &model.Message{
		ID:         id,
		ChatID:     chat.ID,
		SenderID:   callerID,
		SenderName: req.Owner.Name,
		Message:    req.Message,
		CreateAt:   now,
	}
	if req.Owner.Avatar != nil {
		msg.SenderAvatar = *req.Owner.Avatar
	}

	op := memusecase.PostMessage{Text: msg.Message, SenderName: msg.SenderName, SenderAvatar: msg.SenderAvatar, At: now}
	_, err = uc.apply(ctx, chat, callerID, op, func(ctx context.Context) error {
		if err := uc.chats.RecordMessage(ctx, chat.ID, callerID, now); err != nil {
			return err
		}
		return uc.messages.Insert(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, eventbus.EventTypeChatMessageSent, chat, callerID, "", map[string]string{"messageId": id})
	return msg, nil
}

// AddMember adds a user to the chat.
func (uc *ChatUsecase) AddMember(ctx context.Context, callerID string, req AddMemberRequest) error {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, req.ParticipantIDs)
	if err != nil {
		return err
	}

	next := append(append([]string(nil), chat.ParticipantIDs...), req.AddedUserID)
	_, err = uc.apply(ctx, chat, callerID, memusecase.AddMember{UserID: req.AddedUserID}, func(ctx context.Context) error {
		return uc.chats.Update(ctx, chat.ID, chat.Version, model.Changes{ParticipantIDs: next}, uc.now().UTC())
	})
	if err != nil {
		return err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID, "addedUserId": req.AddedUserID}).Info("Member added")
	chat.ParticipantIDs = next
	uc.publish(ctx, eventbus.EventTypeChatMemberAdded, chat, callerID, req.AddedUserID, nil)
	return nil
}

// KickMember removes a user from the chat. The kicked user's own copy is
// kept unless the module is configured to purge it.
func (uc *ChatUsecase) KickMember(ctx context.Context, callerID string, req KickMemberRequest) error {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, req.ParticipantIDs)
	if err != nil {
		return err
	}

	next := memmodel.Without(chat.ParticipantIDs, req.KickedUserID)
	if chat.HasMember(req.KickedUserID) && len(next) == 0 {
		return apperrors.NewPreconditionError(msgLastMember)
	}

	op := memusecase.KickMember{UserID: req.KickedUserID, PurgeKicked: uc.config.PurgeKickedEntry}
	_, err = uc.apply(ctx, chat, callerID, op, func(ctx context.Context) error {
		return uc.chats.Update(ctx, chat.ID, chat.Version, model.Changes{ParticipantIDs: next}, uc.now().UTC())
	})
	if err != nil {
		return err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID, "kickedUserId": req.KickedUserID}).Info("Member kicked")
	members := chat.ParticipantIDs
	chat.ParticipantIDs = next
	uc.publish(ctx, eventbus.EventTypeChatMemberKicked, chat, callerID, req.KickedUserID,
		map[string]string{"previousMembers": strings.Join(members, ",")})
	return nil
}

// MarkRead resets the caller's unread count.
func (uc *ChatUsecase) MarkRead(ctx context.Context, callerID, chatID string) error {
	chat, err := uc.loadForMember(ctx, callerID, chatID, nil)
	if err != nil {
		return err
	}
	_, err = uc.apply(ctx, chat, callerID, memusecase.MarkRead{}, nil)
	return err
}

// ListChats returns the caller's chat copies, most recent activity first.
func (uc *ChatUsecase) ListChats(ctx context.Context, callerID string) ([]memmodel.Entry, error) {
	docs, err := uc.members.LoadMembers(ctx, memmodel.KindChat, []string{callerID})
	if err != nil {
		return nil, err
	}
	member, ok := docs[callerID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("User %s", callerID))
	}

	entries := make([]memmodel.Entry, 0, len(member.Chats))
	for _, e := range member.Chats {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].LastMessageTime, entries[j].LastMessageTime
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

// ListMessages pages through a chat's history for a member.
func (uc *ChatUsecase) ListMessages(ctx context.Context, callerID string, q MessagesQuery) ([]model.Message, error) {
	if _, err := uc.loadForMember(ctx, callerID, q.ChatID, nil); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = uc.config.MessagePageSize
	}
	if limit > uc.config.MaxMessagePage {
		limit = uc.config.MaxMessagePage
	}
	var before time.Time
	if q.Before > 0 {
		before = time.UnixMilli(q.Before).UTC()
	}
	return uc.messages.List(ctx, q.ChatID, before, limit)
}

// Repair rewrites every member's copy from the authoritative record and
// removes stale copies held by former members. Unread counts are kept.
func (uc *ChatUsecase) Repair(ctx context.Context, callerID string, req RepairRequest) (*memusecase.Result, error) {
	chat, err := uc.loadForMember(ctx, callerID, req.ChatID, nil)
	if err != nil {
		return nil, err
	}

	entry := chat.Entry()
	latest, err := uc.messages.Latest(ctx, chat.ID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if latest != nil {
		at := latest.CreateAt
		entry.LastMessage = latest.Message
		entry.LastMessageTime = &at
		entry.SenderID = latest.SenderID
		entry.SenderName = latest.SenderName
		entry.SenderAvatar = latest.SenderAvatar
	}

	// Bumping the version makes a concurrent membership change fail instead
	// of interleaving with the projection.
	res, err := uc.apply(ctx, chat, callerID, memusecase.Project{Entry: entry, Purge: req.FormerMemberIDs}, func(ctx context.Context) error {
		return uc.chats.Update(ctx, chat.ID, chat.Version, model.Changes{}, uc.now().UTC())
	})
	if err != nil {
		return res, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"chatId": chat.ID, "applied": len(res.Applied)}).Info("Chat repaired")
	return res, nil
}

// IsMember reports whether userID currently belongs to chatID.
func (uc *ChatUsecase) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	chat, err := uc.chats.Get(ctx, chatID)
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return chat.HasMember(userID), nil
}

// loadForMember fetches the chat and checks the caller belongs to it. When
// supplied is non-nil it must match the current member set, so a client
// working from a stale list cannot undo a concurrent change.
func (uc *ChatUsecase) loadForMember(ctx context.Context, callerID, chatID string, supplied []string) (*model.Chat, error) {
	chat, err := uc.chats.Get(ctx, chatID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf(msgChatNotExists, chatID))
	}
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(callerID) {
		return nil, apperrors.NewPreconditionError(msgNotMember)
	}
	if supplied != nil && !memmodel.SameSet(memmodel.Dedupe(supplied), chat.ParticipantIDs) {
		return nil, apperrors.NewPreconditionError(msgStaleMembers).WithDetail("participantIds", chat.ParticipantIDs)
	}
	return chat, nil
}

func (uc *ChatUsecase) apply(ctx context.Context, chat *model.Chat, callerID string, op memusecase.Op, authority func(context.Context) error) (*memusecase.Result, error) {
	return uc.mutator.Apply(ctx, memusecase.Mutation{
		Kind:           memmodel.KindChat,
		GroupID:        chat.ID,
		ActorID:        callerID,
		ParticipantIDs: chat.ParticipantIDs,
		Op:             op,
		Authority:      authority,
	})
}

func (uc *ChatUsecase) publish(ctx context.Context, eventType string, chat *model.Chat, actorID, targetID string, extra map[string]string) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewGroupEvent(eventType, "chat", eventbus.GroupActivity{
		GroupID:  chat.ID,
		ActorID:  actorID,
		TargetID: targetID,
		Members:  append([]string(nil), chat.ParticipantIDs...),
		Extra:    extra,
	}))
}

var _ ChatUsecaseInterface = (*ChatUsecase)(nil)

// chatGone reports a delete that missed because the chat does not exist.
func chatGone(err error) bool {
	return apperrors.IsNotFound(err) || (apperrors.IsPrecondition(err) && !apperrors.IsConflict(err))
}
