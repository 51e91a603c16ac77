package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/opsboard/admin-console/internal/infrastructure/httpserver/helpers"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging logs each completed request. Requests that passed session
// validation carry the authenticated admin in the log fields.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			if m.logger != nil {
				fields := logrus.Fields{
					"method":  c.Request().Method,
					"path":    c.Path(),
					"status":  c.Response().Status,
					"latency": time.Since(start).String(),
				}
				if id, ok := helpers.GetAdminIDRaw(c); ok {
					fields["admin_id"] = id
				}
				if email, ok := helpers.GetAdminEmailRaw(c); ok {
					fields["email"] = email
				}
				m.logger.WithFields(fields).Debug("request completed")
			}
			return err
		}
	}
}
