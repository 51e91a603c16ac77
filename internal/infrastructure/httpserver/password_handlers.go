package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// requestPasswordReset starts the password reset flow. The response is the
// same whether or not the email is known; this endpoint must not leak which
// accounts exist.
func (s *Server) requestPasswordReset(c echo.Context) error {
	var req admin.RequestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if err := s.adminSvc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process password reset request")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	})
}

// resetPassword redeems a reset token and sets the new password.
func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		ResetPasswordToken   string `json:"reset_password_token"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ResetPasswordToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reset_password_token is required")
	}

	result, err := s.adminSvc.ResetPassword(c.Request().Context(), req.ResetPasswordToken, req.Password, req.PasswordConfirmation)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset password")
	}

	if !result.OK() {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": result.Errors,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password has been reset",
	})
}
