package http

import (
	"aura-backend/internal/activity/domain/model"
	"aura-backend/internal/activity/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

type chatActivityQuery struct {
	ChatID string `query:"chatId" validate:"required"`
	Since  string `query:"since"`
}

type eventActivityQuery struct {
	ID    string `query:"id" validate:"required"`
	Since string `query:"since"`
}

// ActivityHTTPHandler serves group activity reads.
type ActivityHTTPHandler struct {
	usecase   usecase.ActivityUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewActivityHTTPHandler creates the handler.
func NewActivityHTTPHandler(uc usecase.ActivityUsecaseInterface, v *validation.Validator, log logger.Logger) *ActivityHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("activity-http")}
}

// SetupRoutes registers activity routes on a router already guarded by Protect.
func (h *ActivityHTTPHandler) SetupRoutes(user fiber.Router) {
	user.Get("/chat/activity", h.ChatActivity)
	user.Get("/nowEvent/activity", h.EventActivity)
}

func (h *ActivityHTTPHandler) ChatActivity(c *fiber.Ctx) error {
	var q chatActivityQuery
	if err := httpx.BindQuery(c, h.validator, &q); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return h.list(c, model.GroupChat, usecase.ActivityQuery{GroupID: q.ChatID, Since: q.Since})
}

func (h *ActivityHTTPHandler) EventActivity(c *fiber.Ctx) error {
	var q eventActivityQuery
	if err := httpx.BindQuery(c, h.validator, &q); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return h.list(c, model.GroupEvent, usecase.ActivityQuery{GroupID: q.ID, Since: q.Since})
}

func (h *ActivityHTTPHandler) list(c *fiber.Ctx, kind model.GroupKind, q usecase.ActivityQuery) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}

	entries, err := h.usecase.List(httpx.Ctx(c, "activity", "list"), callerID, kind, q)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	next := q.Since
	if len(entries) > 0 {
		next = entries[len(entries)-1].ID
	}
	return c.JSON(fiber.Map{"activities": entries, "next": next})
}
