package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// RateLimitMiddleware throttles requests per client IP over a fixed window.
// The token endpoints it guards are the ones an attacker would hammer.
type RateLimitMiddleware struct {
	repo   ports.RateLimitRepository
	cfg    *config.RateLimitConfig
	logger *logrus.Logger
}

func NewRateLimitMiddleware(repo ports.RateLimitRepository, cfg *config.RateLimitConfig, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{repo: repo, cfg: cfg, logger: logger}
}

func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.repo == nil || r.cfg == nil || r.cfg.RequestsPerMinute <= 0 {
				return next(c)
			}

			// Keep the counter alive a little past the window so late readers
			// still see it.
			ttl := r.cfg.Window * 2
			count, windowStart, err := r.repo.IncrementWindow(c.Request().Context(), c.RealIP(), r.cfg.Window, r.cfg.KeyPrefix, ttl)
			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("ip", c.RealIP()).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			limit := r.cfg.RequestsPerMinute
			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			reset := windowStart.Add(r.cfg.Window)

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

			if count > limit {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
