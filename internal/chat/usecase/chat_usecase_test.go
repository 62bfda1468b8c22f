package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura-backend/internal/chat/config"
	"aura-backend/internal/chat/domain/model"
	"aura-backend/internal/idgen/idgentest"
	memmodel "aura-backend/internal/membership/domain/model"
	"aura-backend/internal/membership/membershiptest"
	memusecase "aura-backend/internal/membership/usecase"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger/loggertest"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var clock = time.Date(2025, 10, 5, 9, 30, 0, 0, time.UTC)

type ChatUsecaseSuite struct {
	suite.Suite
	ctx      context.Context
	store    *membershiptest.MemStore
	chats    *memChats
	messages *memMessages
	counters *idgentest.Counters
	events   *recordedEvents
	cfg      *config.Config
	uc       *ChatUsecase
}

func (s *ChatUsecaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = membershiptest.NewMemStore("A", "B", "C", "D")
	s.chats = newMemChats()
	s.messages = &memMessages{}
	s.events = &recordedEvents{}
	s.cfg = &config.Config{MessagePageSize: 2, MaxMessagePage: 3}

	ids, counters := idgentest.Allocator(clock)
	s.counters = counters
	mutator := memusecase.NewMutator(s.store, memusecase.Config{Transactional: true}, nil)
	s.uc = NewChatUsecase(s.chats, s.messages, mutator, s.store, ids, s.events, s.cfg, nil)
	s.uc.now = func() time.Time { return clock }
}

func TestChatUsecaseSuite(t *testing.T) {
	suite.Run(t, new(ChatUsecaseSuite))
}

// newChat creates a chat owned by A with B and C.
func (s *ChatUsecaseSuite) newChat() *model.Chat {
	chat, err := s.uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"B", "C", "B"}, GroupName: "Trip"})
	s.Require().NoError(err)
	return chat
}

func (s *ChatUsecaseSuite) entry(user, chatID string) (memmodel.Entry, bool) {
	return s.store.Entry(memmodel.KindChat, user, chatID)
}

func (s *ChatUsecaseSuite) TestCreateChat() {
	chat := s.newChat()

	s.Equal("CH2510000000001", chat.ID)
	s.Equal([]string{"B", "C", "A"}, chat.ParticipantIDs)
	s.Equal("A", chat.OwnerID)

	for _, id := range []string{"A", "B", "C"} {
		e, ok := s.entry(id, chat.ID)
		s.Require().True(ok, id)
		s.ElementsMatch(chat.ParticipantIDs, e.ParticipantIDs)
		s.Equal("Trip", e.GroupName)
		s.Zero(e.UnreadCount)
	}
	_, ok := s.entry("D", chat.ID)
	s.False(ok)

	stored, err := s.chats.Get(s.ctx, chat.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), stored.Version)
	s.Equal([]string{eventbus.EventTypeChatCreated}, s.events.types())
}

func (s *ChatUsecaseSuite) TestCreateChat_AllocationFailure() {
	s.counters.Fail(errors.New("meta unavailable"))

	_, err := s.uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"B"}})
	s.Error(err)
	s.Empty(s.chats.chats)
	s.Empty(s.events.types())
}

func (s *ChatUsecaseSuite) TestCreateChat_UnknownParticipantLeavesNothingBehind() {
	_, err := s.uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"B", "ghost"}})
	s.Require().Error(err)

	s.Empty(s.chats.chats)
	_, ok := s.entry("B", "CH2510000000001")
	s.False(ok)
}

func (s *ChatUsecaseSuite) TestCreateChat_FailedCleanupIsLogged() {
	rec := loggertest.New()
	ids, _ := idgentest.Allocator(clock)
	mutator := memusecase.NewMutator(s.store, memusecase.Config{Transactional: true}, nil)
	uc := NewChatUsecase(s.chats, s.messages, mutator, s.store, ids, s.events, s.cfg, rec)

	s.store.Fail("C", errors.New("write timeout"))
	s.chats.deleteErr = apperrors.NewStorageUnavailableError("failed to delete chat", errors.New("no primary"))

	_, err := uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"B", "C"}})
	s.Require().Error(err)

	s.Len(s.chats.chats, 1)
	s.Require().NotEmpty(rec.Lines())
	s.Contains(rec.Lines()[len(rec.Lines())-1], "chat record left behind after failed create")
}

func (s *ChatUsecaseSuite) TestCreateChat_MissingRecordNotLogged() {
	rec := loggertest.New()
	ids, _ := idgentest.Allocator(clock)
	mutator := memusecase.NewMutator(s.store, memusecase.Config{Transactional: true}, nil)
	uc := NewChatUsecase(s.chats, s.messages, mutator, s.store, ids, s.events, s.cfg, rec)

	_, err := uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"B", "ghost"}})
	s.Require().Error(err)
	for _, line := range rec.Lines() {
		s.NotContains(line, "left behind")
	}
}

func (s *ChatUsecaseSuite) TestUpdateChat() {
	chat := s.newChat()
	name := "Langkawi"

	err := s.uc.UpdateChat(s.ctx, "B", UpdateChatRequest{
		ChatID:         chat.ID,
		ParticipantIDs: []string{"A", "B", "C"},
		Data:           GroupData{GroupName: &name},
	})
	s.Require().NoError(err)

	for _, id := range []string{"A", "B", "C"} {
		e, _ := s.entry(id, chat.ID)
		s.Equal("Langkawi", e.GroupName)
	}
	stored, _ := s.chats.Get(s.ctx, chat.ID)
	s.Equal("Langkawi", stored.GroupName)
	s.Equal(int64(2), stored.Version)
}

func (s *ChatUsecaseSuite) TestUpdateChat_StaleParticipantList() {
	chat := s.newChat()
	name := "Langkawi"

	err := s.uc.UpdateChat(s.ctx, "A", UpdateChatRequest{
		ChatID:         chat.ID,
		ParticipantIDs: []string{"A", "B"},
		Data:           GroupData{GroupName: &name},
	})
	s.True(apperrors.IsPrecondition(err))

	e, _ := s.entry("A", chat.ID)
	s.Equal("Trip", e.GroupName)
}

func (s *ChatUsecaseSuite) TestNonMemberRejected() {
	chat := s.newChat()

	err := s.uc.UpdateChat(s.ctx, "D", UpdateChatRequest{
		ChatID:         chat.ID,
		ParticipantIDs: chat.ParticipantIDs,
	})
	s.True(apperrors.IsPrecondition(err))
	s.Contains(err.Error(), msgNotMember)

	_, err = s.uc.ListMessages(s.ctx, "D", MessagesQuery{ChatID: chat.ID})
	s.True(apperrors.IsPrecondition(err))
}

func (s *ChatUsecaseSuite) TestMissingChat() {
	err := s.uc.MarkRead(s.ctx, "A", "CH2510999999999")
	s.True(apperrors.IsPrecondition(err))
	s.Contains(err.Error(), "does not exist")
}

func (s *ChatUsecaseSuite) TestSendMessageAndMarkRead() {
	chat := s.newChat()

	msg, err := s.uc.SendMessage(s.ctx, "A", SendMessageRequest{
		Owner:       Sender{Name: "Aina"},
		Message:     "hello",
		ChatID:      chat.ID,
		ReceiverIDs: []string{"C", "B", "A"},
	})
	s.Require().NoError(err)
	s.Equal("MS2510000000000001", msg.ID)

	a, _ := s.entry("A", chat.ID)
	b, _ := s.entry("B", chat.ID)
	s.Zero(a.UnreadCount)
	s.Equal(1, b.UnreadCount)
	s.Equal("hello", b.LastMessage)
	s.Equal("A", b.SenderID)
	s.Equal("Aina", b.SenderName)
	s.Require().NotNil(b.LastMessageTime)
	s.True(clock.Equal(*b.LastMessageTime))

	s.Require().NoError(s.uc.MarkRead(s.ctx, "B", chat.ID))
	b, _ = s.entry("B", chat.ID)
	s.Zero(b.UnreadCount)

	stored, _ := s.chats.Get(s.ctx, chat.ID)
	s.Require().NotNil(stored.LastMessageAt)
	s.Len(s.messages.messages, 1)
}

func (s *ChatUsecaseSuite) TestSendMessage_StoreFailureRollsBackPreviews() {
	chat := s.newChat()
	s.messages.err = apperrors.NewStorageUnavailableError("down", context.DeadlineExceeded)

	_, err := s.uc.SendMessage(s.ctx, "A", SendMessageRequest{
		Owner: Sender{Name: "Aina"}, Message: "hello", ChatID: chat.ID, ReceiverIDs: chat.ParticipantIDs,
	})
	s.True(apperrors.IsStorageUnavailable(err))

	b, _ := s.entry("B", chat.ID)
	s.Empty(b.LastMessage)
	s.Zero(b.UnreadCount)
}

func (s *ChatUsecaseSuite) TestAddMember() {
	chat := s.newChat()

	err := s.uc.AddMember(s.ctx, "A", AddMemberRequest{AddedUserID: "D", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.Require().NoError(err)

	stored, _ := s.chats.Get(s.ctx, chat.ID)
	s.Equal([]string{"B", "C", "A", "D"}, stored.ParticipantIDs)

	d, ok := s.entry("D", chat.ID)
	s.Require().True(ok)
	s.Equal("Trip", d.GroupName)
	for _, id := range []string{"A", "B", "C"} {
		e, _ := s.entry(id, chat.ID)
		s.Contains(e.ParticipantIDs, "D")
	}

	err = s.uc.AddMember(s.ctx, "A", AddMemberRequest{AddedUserID: "D", ChatID: chat.ID, ParticipantIDs: stored.ParticipantIDs})
	s.True(apperrors.IsPrecondition(err))
}

func (s *ChatUsecaseSuite) TestKickMember_KeepsKickedCopy() {
	chat := s.newChat()

	err := s.uc.KickMember(s.ctx, "A", KickMemberRequest{KickedUserID: "B", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.Require().NoError(err)

	stored, _ := s.chats.Get(s.ctx, chat.ID)
	s.Equal([]string{"C", "A"}, stored.ParticipantIDs)

	a, _ := s.entry("A", chat.ID)
	s.NotContains(a.ParticipantIDs, "B")
	b, ok := s.entry("B", chat.ID)
	s.True(ok)
	s.Contains(b.ParticipantIDs, "B")
	s.Contains(s.events.types(), eventbus.EventTypeChatMemberKicked)
}

func (s *ChatUsecaseSuite) TestKickMember_PurgeKicked() {
	s.cfg.PurgeKickedEntry = true
	chat := s.newChat()

	err := s.uc.KickMember(s.ctx, "A", KickMemberRequest{KickedUserID: "B", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.Require().NoError(err)

	_, ok := s.entry("B", chat.ID)
	s.False(ok)
}

func (s *ChatUsecaseSuite) TestKickMember_KeptCopyBlocksReAdd() {
	chat := s.newChat()

	err := s.uc.KickMember(s.ctx, "A", KickMemberRequest{KickedUserID: "B", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.Require().NoError(err)

	err = s.uc.AddMember(s.ctx, "A", AddMemberRequest{AddedUserID: "B", ChatID: chat.ID, ParticipantIDs: []string{"C", "A"}})
	s.True(apperrors.IsPrecondition(err))
	s.Contains(err.Error(), "User B already in the chat")

	stored, _ := s.chats.Get(s.ctx, chat.ID)
	s.Equal([]string{"C", "A"}, stored.ParticipantIDs)
}

func (s *ChatUsecaseSuite) TestKickMember_PurgedMemberCanRejoin() {
	s.cfg.PurgeKickedEntry = true
	chat := s.newChat()

	err := s.uc.KickMember(s.ctx, "A", KickMemberRequest{KickedUserID: "B", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.Require().NoError(err)

	err = s.uc.AddMember(s.ctx, "A", AddMemberRequest{AddedUserID: "B", ChatID: chat.ID, ParticipantIDs: []string{"C", "A"}})
	s.Require().NoError(err)

	b, ok := s.entry("B", chat.ID)
	s.Require().True(ok)
	s.ElementsMatch([]string{"C", "A", "B"}, b.ParticipantIDs)
}

func (s *ChatUsecaseSuite) TestKickMember_LastMember() {
	chat, err := s.uc.CreateChat(s.ctx, "A", CreateChatRequest{ParticipantIDs: []string{"A"}})
	s.Require().NoError(err)

	err = s.uc.KickMember(s.ctx, "A", KickMemberRequest{KickedUserID: "A", ChatID: chat.ID, ParticipantIDs: []string{"A"}})
	s.True(apperrors.IsPrecondition(err))
}

func (s *ChatUsecaseSuite) TestConcurrentChangeConflicts() {
	chat := s.newChat()
	uc := *s.uc
	uc.chats = staleChats{s.chats}
	s.chats.bump(chat.ID)

	err := uc.AddMember(s.ctx, "A", AddMemberRequest{AddedUserID: "D", ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs})
	s.True(apperrors.IsConflict(err))

	_, ok := s.entry("D", chat.ID)
	s.False(ok)
	b, _ := s.entry("B", chat.ID)
	s.NotContains(b.ParticipantIDs, "D")
}

func (s *ChatUsecaseSuite) TestDeleteChat() {
	chat := s.newChat()
	_, err := s.uc.SendMessage(s.ctx, "B", SendMessageRequest{
		Owner: Sender{Name: "Ben"}, Message: "hi", ChatID: chat.ID, ReceiverIDs: chat.ParticipantIDs,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.uc.DeleteChat(s.ctx, "C", DeleteChatRequest{ChatID: chat.ID, ParticipantIDs: chat.ParticipantIDs}))

	for _, id := range []string{"A", "B", "C"} {
		_, ok := s.entry(id, chat.ID)
		s.False(ok, id)
	}
	_, err = s.chats.Get(s.ctx, chat.ID)
	s.True(apperrors.IsNotFound(err))
	s.Empty(s.messages.messages)
}

func (s *ChatUsecaseSuite) TestListChats() {
	first := s.newChat()
	second := s.newChat()
	_, err := s.uc.SendMessage(s.ctx, "B", SendMessageRequest{
		Owner: Sender{Name: "Ben"}, Message: "hi", ChatID: first.ID, ReceiverIDs: first.ParticipantIDs,
	})
	s.Require().NoError(err)

	entries, err := s.uc.ListChats(s.ctx, "A")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(first.ID, entries[0].ID)
	s.Equal(second.ID, entries[1].ID)

	none, err := s.uc.ListChats(s.ctx, "D")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ChatUsecaseSuite) TestListMessages() {
	chat := s.newChat()
	for i, text := range []string{"one", "two", "three", "four"} {
		s.uc.now = func() time.Time { return clock.Add(time.Duration(i) * time.Minute) }
		_, err := s.uc.SendMessage(s.ctx, "A", SendMessageRequest{
			Owner: Sender{Name: "Aina"}, Message: text, ChatID: chat.ID, ReceiverIDs: chat.ParticipantIDs,
		})
		s.Require().NoError(err)
	}

	page, err := s.uc.ListMessages(s.ctx, "B", MessagesQuery{ChatID: chat.ID})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("four", page[0].Message)

	clamped, err := s.uc.ListMessages(s.ctx, "B", MessagesQuery{ChatID: chat.ID, Limit: 100})
	s.Require().NoError(err)
	s.Len(clamped, 3)

	older, err := s.uc.ListMessages(s.ctx, "B", MessagesQuery{ChatID: chat.ID, Before: page[1].CreateAt.UnixMilli()})
	s.Require().NoError(err)
	s.Require().Len(older, 2)
	s.Equal("two", older[0].Message)
}

func (s *ChatUsecaseSuite) TestRepair() {
	chat := s.newChat()
	_, err := s.uc.SendMessage(s.ctx, "A", SendMessageRequest{
		Owner: Sender{Name: "Aina"}, Message: "hello", ChatID: chat.ID, ReceiverIDs: chat.ParticipantIDs,
	})
	s.Require().NoError(err)

	// B's copy drifted and D kept a copy after leaving.
	s.store.Put(memmodel.KindChat, "B", memmodel.Entry{ID: chat.ID, ParticipantIDs: []string{"B"}, GroupName: "old", UnreadCount: 4})
	s.store.Put(memmodel.KindChat, "D", memmodel.Entry{ID: chat.ID, ParticipantIDs: []string{"D"}})

	res, err := s.uc.Repair(s.ctx, "A", RepairRequest{ChatID: chat.ID, FormerMemberIDs: []string{"D"}})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"A", "B", "C", "D"}, res.Applied)

	b, _ := s.entry("B", chat.ID)
	s.Equal("Trip", b.GroupName)
	s.ElementsMatch(chat.ParticipantIDs, b.ParticipantIDs)
	s.Equal("hello", b.LastMessage)
	s.Equal(4, b.UnreadCount)
	_, ok := s.entry("D", chat.ID)
	s.False(ok)
}

func (s *ChatUsecaseSuite) TestIsMember() {
	chat := s.newChat()

	ok, err := s.uc.IsMember(s.ctx, chat.ID, "B")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.uc.IsMember(s.ctx, chat.ID, "D")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.uc.IsMember(s.ctx, "CH2510999999999", "A")
	s.Require().NoError(err)
	s.False(ok)
}

// staleChats serves reads one version behind, as if another writer got in
// between the read and the write.
type staleChats struct{ *memChats }

func (r staleChats) Get(ctx context.Context, id string) (*model.Chat, error) {
	c, err := r.memChats.Get(ctx, id)
	if err == nil {
		c.Version--
	}
	return c, err
}

func TestCreateChat_PartialFanOutKeepsRecord(t *testing.T) {
	store := membershiptest.NewMemStore("A", "B")
	store.Fail("B", errors.New("write timeout"))
	chats := newMemChats()
	ids, _ := idgentest.Allocator(clock)
	mutator := memusecase.NewMutator(store, memusecase.Config{Transactional: false}, nil)
	uc := NewChatUsecase(chats, &memMessages{}, mutator, store, ids, nil, &config.Config{}, nil)

	_, err := uc.CreateChat(context.Background(), "A", CreateChatRequest{ParticipantIDs: []string{"B"}})
	require.True(t, apperrors.IsPartialFanOut(err))

	_, err = chats.Get(context.Background(), "CH2510000000001")
	require.NoError(t, err)
}
