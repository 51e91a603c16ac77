package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// inviteAdmin creates an unconfirmed account and emails its confirmation link
func (s *Server) inviteAdmin(c echo.Context) error {
	var req admin.InviteAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	account, err := s.adminSvc.InviteAdmin(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, admin.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to invite admin")
	}

	return c.JSON(http.StatusCreated, account)
}

// resendConfirmation rotates the pending confirmation token and re-sends the
// invitation email
func (s *Server) resendConfirmation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid admin ID")
	}

	if err := s.adminSvc.ResendConfirmation(c.Request().Context(), id); err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "admin not found")
		}
		if errors.Is(err, admin.ErrAlreadyConfirmed) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "account is already confirmed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resend confirmation")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "confirmation email sent",
	})
}
