package http

import (
	"strings"
	"time"

	"aura-backend/internal/auth/domain/repository"
	"aura-backend/internal/auth/usecase"
	"aura-backend/internal/shared/contextkeys"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	localsToken  = "token"
	localsClaims = "claims"
)

// AuthMiddleware holds auth-related Fiber middleware.
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
	log     logger.Logger
}

// NewAuthMiddleware creates the middleware set.
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, log logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{usecase: uc, log: log.WithComponent("auth-middleware")}
}

// CORS allows any origin; the API is consumed by mobile clients.
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Request-ID",
		MaxAge:       86400,
	})
}

// SecurityHeaders adds security headers
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	}
}

// RateLimiter throttles guest endpoints per client IP.
func (m *AuthMiddleware) RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID assigns an X-Request-ID.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequestContext copies the request id into the user context for logging.
// It must run after RequestID.
func (m *AuthMiddleware) RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(string(contextkeys.RequestIDKey)).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// Protect requires a valid, unrevoked token and puts the caller's id in the
// user context.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return httpx.Respond(c, m.log, apperrors.NewAuthenticationError("No token provided"))
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			return httpx.Respond(c, m.log, err)
		}

		ctx := utils.WithUserID(c.UserContext(), claims.UserID)
		ctx = utils.WithPhone(ctx, claims.PhoneNo)
		ctx = utils.WithTokenID(ctx, claims.TokenID())
		c.SetUserContext(ctx)
		c.Locals(localsToken, token)
		c.Locals(localsClaims, claims)
		return c.Next()
	}
}

// extractToken accepts "Bearer <token>" or the bare token in Authorization.
func extractToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// GetClaims returns the claims stored by Protect.
func GetClaims(c *fiber.Ctx) (*repository.Claims, bool) {
	claims, ok := c.Locals(localsClaims).(*repository.Claims)
	return claims, ok
}
