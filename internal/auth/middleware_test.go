package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

func newGuardedApp(t *testing.T, tm *TokenManager, invoked *bool) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}})
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})

	mw := NewAuthMiddleware(tm, zap.NewNop())
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		*invoked = true
		principal, ok := PrincipalFromContext(c)
		assert.True(t, ok)
		return c.SendString(principal.SubjectID)
	})
	return app
}

func TestMiddlewareRejectsWithoutCredential(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Token abc"},
		{"lowercase scheme", "bearer abc"},
		{"malformed token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invoked := false
			app := newGuardedApp(t, tm, &invoked)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, invoked, "protected handler must not run")
		})
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	expired := issueExpired(t, tm)

	invoked := false
	app := newGuardedApp(t, tm, &invoked)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+expired)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, invoked)
}

func TestMiddlewareAdmitsValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue("user-42")
	require.NoError(t, err)

	invoked := false
	app := newGuardedApp(t, tm, &invoked)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, invoked)
}
