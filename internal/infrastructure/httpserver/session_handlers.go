package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/admin-console/internal/application/services"
	"github.com/opsboard/admin-console/internal/core/domain/session"
	"github.com/opsboard/admin-console/internal/infrastructure/httpserver/helpers"
)

// Session handlers
func (s *Server) login(c echo.Context) error {
	var req session.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result, err := s.sessionSvc.Login(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUnconfirmedAccount) {
			return echo.NewHTTPError(http.StatusUnauthorized, "account is not confirmed")
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to log in")
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetSessionTokenFromContext(c)
	if err != nil {
		return err
	}

	if err := s.sessionSvc.Logout(c.Request().Context(), token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to logout")
	}

	return c.NoContent(http.StatusOK)
}

// getOwnAccount returns the authenticated admin's own account
func (s *Server) getOwnAccount(c echo.Context) error {
	adminID, err := helpers.GetAdminIDFromContext(c)
	if err != nil {
		return err
	}

	account, err := s.adminSvc.GetAdmin(c.Request().Context(), adminID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get account")
	}

	return c.JSON(http.StatusOK, account)
}
