package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/opsboard/admin-console/internal/infrastructure/httpserver/helpers"
	"github.com/opsboard/admin-console/internal/infrastructure/httpserver/middleware"
)

func TestRequestLogging_CarriesAuthenticatedAdmin(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	adminID := uuid.New()
	e := echo.New()
	e.Use(middleware.NewLoggingMiddleware(logger).RequestLogging())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			helpers.SetAdminID(c, adminID)
			helpers.SetAdminEmail(c, "a@corp.io")
			return next(c)
		}
	})
	e.GET("/admin/me", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.Equal(t, "request completed", entry.Message)
	require.Equal(t, adminID, entry.Data["admin_id"])
	require.Equal(t, "a@corp.io", entry.Data["email"])
	require.Equal(t, "/admin/me", entry.Data["path"])
	require.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRequestLogging_AnonymousRequestOmitsAdminFields(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	e := echo.New()
	e.Use(middleware.NewLoggingMiddleware(logger).RequestLogging())
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.NotContains(t, entry.Data, "admin_id")
	require.NotContains(t, entry.Data, "email")
}
