package router

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/handler"
)

// SetupDevRouter only registers routes in development.
func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	devTokenHandler := handler.GetDevTokenHandler()
	if devTokenHandler == nil {
		return
	}

	e.GET("/_dev/token/:uid", devTokenHandler.GenerateToken)
}
