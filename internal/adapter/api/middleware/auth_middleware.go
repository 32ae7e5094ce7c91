package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"evenapp/internal/infrastructure/firebase"
	"evenapp/pkg/errors"
	"evenapp/pkg/response"
)

// Context keys set by Authenticate.
const (
	ContextKeyUID   = "uid"
	ContextKeyAdmin = "admin"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*firebase.VerifiedToken, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate requires a valid Firebase ID token in the Authorization
// header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, false)
}

// AuthenticateWebSocket also accepts ?token=, since browsers cannot set
// headers on a websocket upgrade.
func (m *AuthMiddleware) AuthenticateWebSocket(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next echo.HandlerFunc, allowQuery bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, err := bearerToken(c.Request().Header.Get("Authorization"))
		if err != nil && allowQuery && c.QueryParam("token") != "" {
			idToken, err = c.QueryParam("token"), nil
		}
		if err != nil {
			return response.Error(c, err)
		}

		token, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextKeyUID, token.UID)
		c.Set(ContextKeyAdmin, token.Admin)

		return next(c)
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}

// UID returns the authenticated user id, or "" outside Authenticate.
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyUID).(string)
	return uid
}
