package http

import (
	"aura-backend/internal/location/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

// LocationHTTPHandler serves /user/location.
type LocationHTTPHandler struct {
	usecase   usecase.LocationUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewLocationHTTPHandler creates the handler.
func NewLocationHTTPHandler(uc usecase.LocationUsecaseInterface, v *validation.Validator, log logger.Logger) *LocationHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LocationHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("location-http")}
}

// SetupRoutes registers location routes on a router already guarded by Protect.
func (h *LocationHTTPHandler) SetupRoutes(user fiber.Router) {
	user.Get("/location/search", h.Search)
}

func (h *LocationHTTPHandler) Search(c *fiber.Ctx) error {
	if _, err := httpx.CallerID(c); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var q usecase.SearchQuery
	if err := httpx.BindQuery(c, h.validator, &q); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	res, err := h.usecase.Search(httpx.Ctx(c, "location", "search"), q)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(res)
}
