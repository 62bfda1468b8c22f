package http

import (
	"fmt"

	"aura-backend/internal/event/domain/model"
	"aura-backend/internal/event/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

// Messages returned to clients.
const (
	MsgJoined         = "Joined event successfully"
	MsgLeft           = "Left event successfully"
	MsgCommentAdded   = "Comment added successfully"
	MsgCommentUpdated = "Comment updated successfully"
	MsgCommentDeleted = "Comment deleted successfully"
)

// EventHTTPHandler serves the four event families and future-event comments.
type EventHTTPHandler struct {
	usecase   usecase.EventUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewEventHTTPHandler creates the handler.
func NewEventHTTPHandler(uc usecase.EventUsecaseInterface, v *validation.Validator, log logger.Logger) *EventHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("event-http")}
}

// SetupRoutes registers event routes on a router already guarded by Protect.
func (h *EventHTTPHandler) SetupRoutes(user fiber.Router) {
	past := user.Group("/" + string(model.KindPast))
	past.Post("/create", create(h, model.KindPast, func(r *usecase.CreatePastEventRequest) (usecase.Input, *usecase.Owner) {
		return r.Data, &r.Owner
	}))
	past.Post("/update", update(h, model.KindPast, func(r *usecase.UpdatePastEventRequest) (string, usecase.Input) {
		return r.ID, r.Data
	}))

	now := user.Group("/" + string(model.KindNow))
	now.Post("/create", create(h, model.KindNow, func(r *usecase.CreateNowEventRequest) (usecase.Input, *usecase.Owner) {
		return r.Data, nil
	}))
	now.Post("/update", update(h, model.KindNow, func(r *usecase.UpdateNowEventRequest) (string, usecase.Input) {
		return r.ID, r.Data
	}))
	now.Post("/join", h.Join)
	now.Delete("/leave", h.Leave)

	future := user.Group("/" + string(model.KindFuture))
	future.Post("/create", create(h, model.KindFuture, func(r *usecase.CreateFutureEventRequest) (usecase.Input, *usecase.Owner) {
		return r.Data, nil
	}))
	future.Post("/update", update(h, model.KindFuture, func(r *usecase.UpdateFutureEventRequest) (string, usecase.Input) {
		return r.ID, r.Data
	}))
	future.Post("/comment/create", h.CreateComment)
	future.Post("/comment/update", h.UpdateComment)
	future.Delete("/comment/delete", h.DeleteComment)
	future.Get("/comment/list", h.ListComments)

	ref := user.Group("/" + string(model.KindReference))
	ref.Post("/create", create(h, model.KindReference, func(r *usecase.CreateReferenceRequest) (usecase.Input, *usecase.Owner) {
		return r.Data, nil
	}))
	ref.Post("/update", update(h, model.KindReference, func(r *usecase.UpdateReferenceRequest) (string, usecase.Input) {
		return r.ID, r.Data
	}))

	for kind, g := range map[model.Kind]fiber.Router{model.KindPast: past, model.KindNow: now, model.KindFuture: future, model.KindReference: ref} {
		g.Delete("/delete", h.remove(kind))
		g.Get("/get", h.get(kind))
	}
}

// idKey is the response field carrying the id, e.g. "eventId".
func idKey(kind model.Kind) string {
	if kind == model.KindReference {
		return "referenceId"
	}
	return "eventId"
}

func create[T any](h *EventHTTPHandler, kind model.Kind, extract func(*T) (usecase.Input, *usecase.Owner)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, err := httpx.CallerID(c)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		req := new(T)
		if err := httpx.Bind(c, h.validator, req); err != nil {
			return httpx.Respond(c, h.log, err)
		}
		in, owner := extract(req)

		ev, err := h.usecase.CreateEvent(httpx.Ctx(c, "event", string(kind)+".create"), callerID, kind, in, owner)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		return httpx.Message(c, fmt.Sprintf("%s created successfully", kind.Label()), fiber.Map{idKey(kind): ev.ID})
	}
}

func update[T any](h *EventHTTPHandler, kind model.Kind, extract func(*T) (string, usecase.Input)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, err := httpx.CallerID(c)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		req := new(T)
		if err := httpx.Bind(c, h.validator, req); err != nil {
			return httpx.Respond(c, h.log, err)
		}
		id, in := extract(req)

		if _, err := h.usecase.UpdateEvent(httpx.Ctx(c, "event", string(kind)+".update"), callerID, kind, id, in); err != nil {
			return httpx.Respond(c, h.log, err)
		}
		return httpx.Message(c, fmt.Sprintf("%s updated successfully", kind.Label()), fiber.Map{idKey(kind): id})
	}
}

func (h *EventHTTPHandler) remove(kind model.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, err := httpx.CallerID(c)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		var req usecase.IDRequest
		if err := httpx.Bind(c, h.validator, &req); err != nil {
			return httpx.Respond(c, h.log, err)
		}

		if err := h.usecase.DeleteEvent(httpx.Ctx(c, "event", string(kind)+".delete"), callerID, kind, req.ID); err != nil {
			return httpx.Respond(c, h.log, err)
		}
		return httpx.Message(c, fmt.Sprintf("%s deleted successfully", kind.Label()), fiber.Map{idKey(kind): req.ID})
	}
}

func (h *EventHTTPHandler) get(kind model.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, err := httpx.CallerID(c)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		var q usecase.IDRequest
		if err := httpx.BindQuery(c, h.validator, &q); err != nil {
			return httpx.Respond(c, h.log, err)
		}

		ev, err := h.usecase.GetEvent(httpx.Ctx(c, "event", string(kind)+".get"), callerID, kind, q.ID)
		if err != nil {
			return httpx.Respond(c, h.log, err)
		}
		return c.JSON(fiber.Map{"event": ev})
	}
}

// Join handles POST /user/nowEvent/join.
func (h *EventHTTPHandler) Join(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.JoinRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	ev, err := h.usecase.JoinNowEvent(httpx.Ctx(c, "event", "nowEvent.join"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, MsgJoined, fiber.Map{"eventId": ev.ID, "participantIds": ev.ParticipantIDs})
}

// Leave handles DELETE /user/nowEvent/leave.
func (h *EventHTTPHandler) Leave(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.IDRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.LeaveNowEvent(httpx.Ctx(c, "event", "nowEvent.leave"), callerID, req.ID); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, MsgLeft, fiber.Map{"eventId": req.ID})
}

func (h *EventHTTPHandler) CreateComment(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.CreateCommentRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	comment, err := h.usecase.CreateComment(httpx.Ctx(c, "event", "comment.create"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, MsgCommentAdded, fiber.Map{"commentId": comment.ID})
}

func (h *EventHTTPHandler) UpdateComment(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.UpdateCommentRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.UpdateComment(httpx.Ctx(c, "event", "comment.update"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, MsgCommentUpdated, fiber.Map{"commentId": req.CommentID})
}

func (h *EventHTTPHandler) DeleteComment(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.CommentIDRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.DeleteComment(httpx.Ctx(c, "event", "comment.delete"), callerID, req.CommentID); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, MsgCommentDeleted, fiber.Map{"commentId": req.CommentID})
}

func (h *EventHTTPHandler) ListComments(c *fiber.Ctx) error {
	if _, err := httpx.CallerID(c); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var q usecase.CommentsQuery
	if err := httpx.BindQuery(c, h.validator, &q); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	comments, err := h.usecase.ListComments(httpx.Ctx(c, "event", "comment.list"), q)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"eventId": q.EventID, "comments": comments})
}
