// Package httpx holds the Fiber glue shared by every module's HTTP adapter.
package httpx

import (
	"context"

	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/utils"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
)

// Bind parses the request body into dst and validates it.
func Bind(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("Invalid request body").WithCause(err)
	}
	return v.Struct(dst)
}

// BindQuery parses query parameters into dst and validates it.
func BindQuery(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return apperrors.NewValidationError("Invalid query parameters").WithCause(err)
	}
	return v.Struct(dst)
}

// CallerID returns the authenticated user id placed in the user context by the auth middleware.
func CallerID(c *fiber.Ctx) (string, error) {
	id, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return "", apperrors.NewAuthenticationError("No token provided")
	}
	return id, nil
}

// Ctx returns the request's user context tagged with the component and operation for logging.
func Ctx(c *fiber.Ctx, component, operation string) context.Context {
	ctx := utils.WithComponent(c.UserContext(), component)
	return utils.WithOperation(ctx, operation)
}

// Respond writes err as {"error": ..., "code": ..., "details": ...}.
func Respond(c *fiber.Ctx, log logger.Logger, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.WrapError(err, "Internal server error")
	}

	status := apperrors.HTTPStatus(appErr)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"path":   c.Path(),
			"status": status,
		}).Errorf("request failed: %v", err)
	}

	body := fiber.Map{
		"error": appErr.Message,
		"code":  appErr.Type,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is installed as the Fiber app's ErrorHandler.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return Respond(c, log, err)
	}
}

// Message writes a 200 response of the form {"message": msg, ...extra}.
func Message(c *fiber.Ctx, msg string, extra fiber.Map) error {
	body := fiber.Map{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
