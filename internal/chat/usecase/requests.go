package usecase

// Messages returned to clients.
const (
	MsgChatCreated   = "Chat created successfully"
	MsgChatUpdated   = "Chat updated successfully"
	MsgChatDeleted   = "Chat deleted successfully"
	MsgMessageSent   = "Message sent successfully"
	MsgMemberAdded   = "Member added successfully"
	MsgMemberKicked  = "Member kicked successfully"
	MsgChatRead      = "Chat marked as read"
	MsgChatRepaired  = "Chat repaired successfully"
	msgNotMember     = "you are not one of the member in the chat"
	msgStaleMembers  = "participant list is out of date, reload the chat"
	msgLastMember    = "cannot remove the last member, delete the chat instead"
	msgChatNotExists = "Chat %s does not exist"
)

// CreateChatRequest is the body of POST /chat/create. The caller is always
// added to the participants.
type CreateChatRequest struct {
	ParticipantIDs []string `json:"participantIds" validate:"required,dive,required"`
	GroupName      string   `json:"groupName,omitempty"`
	GroupAvatar    string   `json:"groupAvatar,omitempty"`
}

// GroupData carries editable chat metadata. A null field is left unchanged.
type GroupData struct {
	GroupName   *string `json:"groupName"`
	GroupAvatar *string `json:"groupAvatar"`
}

// UpdateChatRequest is the body of POST /chat/update.
type UpdateChatRequest struct {
	ChatID         string    `json:"chatId" validate:"required"`
	ParticipantIDs []string  `json:"participantIds" validate:"required,min=1,dive,required"`
	Data           GroupData `json:"data" validate:"required"`
}

// DeleteChatRequest is the body of DELETE /chat/delete.
type DeleteChatRequest struct {
	ChatID         string   `json:"chatId" validate:"required"`
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
}

// Sender describes the author of a message as shown to other members.
type Sender struct {
	Name   string  `json:"name" validate:"required"`
	Avatar *string `json:"avatar"`
}

// SendMessageRequest is the body of POST /chat/sendMessage.
type SendMessageRequest struct {
	Owner       Sender   `json:"owner" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	ChatID      string   `json:"chatId" validate:"required"`
	ReceiverIDs []string `json:"receiverIds" validate:"required,min=1,dive,required"`
}

// AddMemberRequest is the body of POST /chat/member/add.
type AddMemberRequest struct {
	AddedUserID    string   `json:"addedUserId" validate:"required"`
	ChatID         string   `json:"chatId" validate:"required"`
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
}

// KickMemberRequest is the body of DELETE /chat/member/kick.
type KickMemberRequest struct {
	KickedUserID   string   `json:"kickedUserId" validate:"required"`
	ChatID         string   `json:"chatId" validate:"required"`
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
}

// ChatIDRequest identifies a chat.
type ChatIDRequest struct {
	ChatID string `json:"chatId" query:"chatId" validate:"required"`
}

// RepairRequest re-projects a chat. FormerMemberIDs lists users whose stale
// copy should be removed.
type RepairRequest struct {
	ChatID          string   `json:"chatId" validate:"required"`
	FormerMemberIDs []string `json:"formerMemberIds"`
}

// MessagesQuery pages through a chat's messages, newest first. Before is a
// unix time in milliseconds; zero means now.
type MessagesQuery struct {
	ChatID string `json:"chatId" query:"chatId" validate:"required"`
	Limit  int    `json:"limit" query:"limit" validate:"omitempty,min=1"`
	Before int64  `json:"before" query:"before" validate:"omitempty,min=0"`
}
