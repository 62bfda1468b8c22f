package http

import (
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"
	"aura-backend/internal/travel/usecase"

	"github.com/gofiber/fiber/v2"
)

// TravelHTTPHandler serves /user/travelPlan.
type TravelHTTPHandler struct {
	usecase   usecase.TravelUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewTravelHTTPHandler creates the handler.
func NewTravelHTTPHandler(uc usecase.TravelUsecaseInterface, v *validation.Validator, log logger.Logger) *TravelHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TravelHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("travel-http")}
}

// SetupRoutes registers travel plan routes on a router already guarded by Protect.
func (h *TravelHTTPHandler) SetupRoutes(user fiber.Router) {
	plan := user.Group("/travelPlan")
	plan.Post("/create", h.CreatePlan)
	plan.Post("/update", h.UpdatePlan)
	plan.Delete("/delete", h.DeletePlan)
	plan.Get("/get", h.GetPlan)
	plan.Get("/list", h.ListPlans)

	items := plan.Group("/dailyPlan/scheduleItem")
	items.Post("/create", h.CreateScheduleItem)
	items.Post("/update", h.UpdateScheduleItem)
	items.Delete("/delete", h.DeleteScheduleItem)
}

func (h *TravelHTTPHandler) CreatePlan(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.CreatePlanRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	plan, err := h.usecase.CreatePlan(httpx.Ctx(c, "travel", "create"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgPlanCreated, fiber.Map{"eventId": plan.ID})
}

func (h *TravelHTTPHandler) UpdatePlan(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.UpdatePlanRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if _, err := h.usecase.UpdatePlan(httpx.Ctx(c, "travel", "update"), callerID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgPlanUpdated, fiber.Map{"eventId": req.ID})
}

func (h *TravelHTTPHandler) DeletePlan(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.IDRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.DeletePlan(httpx.Ctx(c, "travel", "delete"), callerID, req.ID); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgPlanDeleted, fiber.Map{"eventId": req.ID})
}

func (h *TravelHTTPHandler) GetPlan(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.IDRequest
	if err := httpx.BindQuery(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	plan, err := h.usecase.GetPlan(httpx.Ctx(c, "travel", "get"), callerID, req.ID)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"travelPlan": plan})
}

func (h *TravelHTTPHandler) ListPlans(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}

	plans, err := h.usecase.ListPlans(httpx.Ctx(c, "travel", "list"), callerID)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"travelPlans": plans})
}

func (h *TravelHTTPHandler) CreateScheduleItem(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.CreateScheduleItemRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	day, err := h.usecase.CreateScheduleItem(httpx.Ctx(c, "travel", "schedule_create"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgScheduleAdded, fiber.Map{"dailyPlan": day, "eventId": req.TravelPlanID})
}

func (h *TravelHTTPHandler) UpdateScheduleItem(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.UpdateScheduleItemRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	day, err := h.usecase.UpdateScheduleItem(httpx.Ctx(c, "travel", "schedule_update"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgScheduleEdited, fiber.Map{"dailyPlan": day, "eventId": req.TravelPlanID})
}

func (h *TravelHTTPHandler) DeleteScheduleItem(c *fiber.Ctx) error {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.DeleteScheduleItemRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	day, err := h.usecase.DeleteScheduleItem(httpx.Ctx(c, "travel", "schedule_delete"), callerID, req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgScheduleDeleted, fiber.Map{"dailyPlan": day, "eventId": req.TravelPlanID})
}
