package middleware

import (
	"github.com/labstack/echo/v4"

	"evenapp/pkg/errors"
	"evenapp/pkg/response"
)

// AdminOnly must run after Authenticate. Admin rights come from the
// "admin" custom claim on the Firebase token.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UID(c) == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if admin, _ := c.Get(ContextKeyAdmin).(bool); !admin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
