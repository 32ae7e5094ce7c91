package router

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/middleware"
	"evenapp/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	SetupHealthRouter(e)
	SetupReviewRouter(e, authMiddleware, limiter)
	SetupAdminRouter(e, authMiddleware)
}
