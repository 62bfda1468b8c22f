package http

import (
	"aura-backend/internal/chat/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

// ChatHTTPHandler serves /user/chat.
type ChatHTTPHandler struct {
	usecase   usecase.ChatUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewChatHTTPHandler creates the handler.
func NewChatHTTPHandler(uc usecase.ChatUsecaseInterface, v *validation.Validator, log logger.Logger) *ChatHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("chat-http")}
}

// SetupRoutes registers chat routes on a router already guarded by Protect.
func (h *ChatHTTPHandler) SetupRoutes(user fiber.Router) {
	chat := user.Group("/chat")
	chat.Post("/create", h.CreateChat)
	chat.Post("/update", h.UpdateChat)
	chat.Delete("/delete", h.DeleteChat)
	chat.Post("/sendMessage", h.SendMessage)
	chat.Post("/member/add", h.AddMember)
	chat.Delete("/member/kick", h.KickMember)
	chat.Post("/read", h.MarkRead)
	chat.Post("/repair", h.Repair)
	chat.Get("/list", h.ListChats)
	chat.Get("/messages", h.ListMessages)
}

func (h *ChatHTTPHandler) CreateChat(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.CreateChatRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	chat, err := h.usecase.CreateChat(httpx.Ctx(c, "chat", "create"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgChatCreated, fiber.Map{"chatId": chat.ID})
}

func (h *ChatHTTPHandler) UpdateChat(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.UpdateChatRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.UpdateChat(httpx.Ctx(c, "chat", "update"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgChatUpdated, fiber.Map{"chatId": req.ChatID})
}

func (h *ChatHTTPHandler) DeleteChat(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.DeleteChatRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.DeleteChat(httpx.Ctx(c, "chat", "delete"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgChatDeleted, fiber.Map{"chatId": req.ChatID})
}

func (h *ChatHTTPHandler) SendMessage(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.SendMessageRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	msg, err := h.usecase.SendMessage(httpx.Ctx(c, "chat", "sendMessage"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgMessageSent, fiber.Map{"messageId": msg.ID})
}

func (h *ChatHTTPHandler) AddMember(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.AddMemberRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.AddMember(httpx.Ctx(c, "chat", "addMember"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgMemberAdded, fiber.Map{"chatId": req.ChatID})
}

func (h *ChatHTTPHandler) KickMember(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.KickMemberRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.KickMember(httpx.Ctx(c, "chat", "kickMember"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgMemberKicked, fiber.Map{"chatId": req.ChatID})
}

func (h *ChatHTTPHandler) MarkRead(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.ChatIDRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.MarkRead(httpx.Ctx(c, "chat", "read"), callerID, req.ChatID); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgChatRead, fiber.Map{"chatId": req.ChatID})
}

// Repair handles POST /user/chat/repair. The response lists which members
// were rewritten.
func (h *ChatHTTPHandler) Repair(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.RepairRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	res, err := h.usecase.Repair(httpx.Ctx(c, "chat", "repair"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgChatRepaired, fiber.Map{"chatId": req.ChatID, "applied": res.Applied})
}

func (h *ChatHTTPHandler) ListChats(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}

	chats, err := h.usecase.ListChats(httpx.Ctx(c, "chat", "list"), callerID)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHTTPHandler) ListMessages(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var q usecase.MessagesQuery
	if err := httpx.BindQuery(c, h.validator, &q); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	messages, err := h.usecase.ListMessages(httpx.Ctx(c, "chat", "messages"), callerID, q)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"chatId": q.ChatID, "messages": messages})
}
