package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/opsboard/admin-console/internal/core/ports"
	"github.com/opsboard/admin-console/internal/infrastructure/httpserver/helpers"
)

type SessionMiddleware struct {
	sessionService ports.SessionService
	logger         *logrus.Logger
}

func NewSessionMiddleware(sessionService ports.SessionService, logger *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessionService: sessionService, logger: logger}
}

// RequireSession creates middleware that validates the bearer token and sets
// the admin context. Validation goes through StartSession so every
// authenticated request refreshes the session's activity metadata.
func (m *SessionMiddleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetSessionTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.sessionService.StartSession(c.Request().Context(), tokenString, c.RealIP(), c.Request().UserAgent())
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("session validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			helpers.SetAdminID(c, claims.AdminID)
			helpers.SetAdminEmail(c, claims.Email)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"admin_id": claims.AdminID}).Debug("session validated and admin context set")
			}

			return next(c)
		}
	}
}
