package http

import (
	"aura-backend/internal/auth/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles guest login and the caller's profile.
type AuthHTTPHandler struct {
	usecase   usecase.AuthUsecaseInterface
	validator *validation.Validator
	log       logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, v *validation.Validator, log logger.Logger) *AuthHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHTTPHandler{usecase: uc, validator: v, log: log.WithComponent("auth-http")}
}

// SetupGuestRoutes registers the unauthenticated login routes.
func (h *AuthHTTPHandler) SetupGuestRoutes(router fiber.Router, limit fiber.Handler) {
	guest := router.Group("/guest", limit)
	guest.Post("/otp", h.RequestOTP)
	guest.Post("/loginOrRegister", h.LoginOrRegister)
	guest.Post("/loginByToken", h.LoginByToken)
	guest.Post("/createAccount", h.CreateAccount)
}

// SetupUserRoutes registers profile routes on a router already guarded by Protect.
func (h *AuthHTTPHandler) SetupUserRoutes(user fiber.Router) {
	user.Post("/profile/update", h.UpdateProfile)
	user.Get("/profile", h.GetProfile)
	user.Post("/logout", h.Logout)
}

// RequestOTP handles POST /guest/otp.
func (h *AuthHTTPHandler) RequestOTP(c *fiber.Ctx) error {
	var req usecase.OTPRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	res, err := h.usecase.RequestOTP(httpx.Ctx(c, "auth", "otp"), req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	extra := fiber.Map{}
	if res.OTP != "" {
		extra["otp"] = res.OTP
	}
	return httpx.Message(c, usecase.MsgOTPSent, extra)
}

// LoginOrRegister handles POST /guest/loginOrRegister.
func (h *AuthHTTPHandler) LoginOrRegister(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	res, err := h.usecase.LoginOrRegister(httpx.Ctx(c, "auth", "loginOrRegister"), req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	if res.NeedRegistration {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": usecase.MsgPleaseRegister,
			"users":   []interface{}{},
		})
	}
	return httpx.Message(c, usecase.MsgLoginSuccess, fiber.Map{"user": res.User})
}

// LoginByToken handles POST /guest/loginByToken.
func (h *AuthHTTPHandler) LoginByToken(c *fiber.Ctx) error {
	var req usecase.TokenLoginRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	user, err := h.usecase.LoginByToken(httpx.Ctx(c, "auth", "loginByToken"), req.Token)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgLoginSuccess, fiber.Map{"user": user})
}

// CreateAccount handles POST /guest/createAccount.
func (h *AuthHTTPHandler) CreateAccount(c *fiber.Ctx) error {
	var req usecase.CreateAccountRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	res, err := h.usecase.CreateAccount(httpx.Ctx(c, "auth", "createAccount"), req)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	if res.AlreadyRegistered {
		return httpx.Message(c, usecase.MsgPhoneRegistered, fiber.Map{"users": []interface{}{}})
	}
	return httpx.Message(c, usecase.MsgUserCreated, fiber.Map{"user": res.User})
}

// UpdateProfile handles POST /user/profile/update.
func (h *AuthHTTPHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	var req usecase.ProfileUpdateRequest
	if err := httpx.Bind(c, h.validator, &req); err != nil {
		return httpx.Respond(c, h.log, err)
	}

	if err := h.usecase.UpdateProfile(httpx.Ctx(c, "auth", "updateProfile"), userID, req); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgProfileUpdated, nil)
}

// GetProfile handles GET /user/profile.
func (h *AuthHTTPHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := httpx.CallerID(c)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	user, err := h.usecase.GetProfile(httpx.Ctx(c, "auth", "getProfile"), userID)
	if err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// Logout handles POST /user/logout.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(localsToken).(string)
	if err := h.usecase.Logout(httpx.Ctx(c, "auth", "logout"), token); err != nil {
		return httpx.Respond(c, h.log, err)
	}
	return httpx.Message(c, usecase.MsgLogoutSuccess, nil)
}
