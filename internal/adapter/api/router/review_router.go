package router

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/handler"
	"evenapp/internal/adapter/api/middleware"
	"evenapp/internal/infrastructure/ratelimit"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	reviewHandler := handler.GetReviewHandler()
	strikeHandler := handler.GetStrikeHandler()

	reviews := e.Group("/v1/reviews")

	// Public routes
	reviews.GET("/user/:uid", reviewHandler.GetReviewsForUser)
	reviews.GET("/user/:uid/average", reviewHandler.GetAverageRating)

	// Protected routes
	me := reviews.Group("", authMiddleware.Authenticate)
	me.POST("", reviewHandler.SubmitReview, middleware.RateLimit(limiter, ratelimit.ActionSubmitReview))
	me.GET("/me/week-usage", reviewHandler.GetMyWeekUsage)
	me.GET("/me/strikes", strikeHandler.GetMyStrikes)
	me.GET("/emergency/:targetUid", reviewHandler.GetEmergencyStatus)
}
