package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens on protected HTTP routes.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. Rejections carry a
// generic message regardless of the internal reason; the reason is logged.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authCtx := Extract(c.Get(fiber.HeaderAuthorization), m.tokens)
	if !authCtx.Authenticated() {
		m.logger.Debug("request rejected", zap.String("path", c.Path()), zap.Error(authCtx.Err))
		return apperrors.NewUnauthorized("authentication required")
	}

	c.Locals(principalKey, authCtx)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated subject for the request.
func PrincipalFromContext(c *fiber.Ctx) (AuthContext, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return AuthContext{}, false
	}
	authCtx, ok := val.(AuthContext)
	return authCtx, ok && authCtx.Authenticated()
}
