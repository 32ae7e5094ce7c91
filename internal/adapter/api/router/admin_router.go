package router

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/handler"
	"evenapp/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	strikeHandler := handler.GetStrikeHandler()

	admin := e.Group("/v1/admin", authMiddleware.Authenticate, middleware.AdminOnly)
	admin.GET("/users/:uid/strikes", strikeHandler.GetUserStrikes)
}
