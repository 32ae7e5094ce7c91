package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"evenapp/internal/infrastructure/ratelimit"
	"evenapp/pkg/errors"
	"evenapp/pkg/logger"
	"evenapp/pkg/response"
)

// RateLimit limits action per authenticated user, falling back to the
// client IP for anonymous requests.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			ok, wait := limiter.Allow(key, action)
			if !ok {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("rate limit hit for %s on %s (retry in %ds)", key, action, retryAfter)

				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests("Too many requests, slow down").
					WithDetail("retryAfter", retryAfter))
			}

			return next(c)
		}
	}
}
