package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/admin-console/internal/core/domain/admin"
)

// passwordParams is the password pair a confirming submission carries, nested
// under the account kind's parameter name.
type passwordParams struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// showConfirmation handles the landing link from the invitation email. It is
// read-only except when the account already has credentials, in which case the
// account is confirmed and signed in directly.
func (s *Server) showConfirmation(c echo.Context) error {
	rawToken := c.QueryParam("confirmation_token")

	result, err := s.confirmationSvc.Preview(c.Request().Context(), rawToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process confirmation")
	}

	return s.renderConfirmationResult(c, result)
}

// confirmAccount handles the committing submission. The confirmation token
// rides at the top level of the body (or the query string); the password pair
// is nested under the account kind's parameter name.
func (s *Server) confirmAccount(c echo.Context) error {
	// An empty body is fine; the token may arrive via query string alone.
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		body = map[string]json.RawMessage{}
	}

	rawToken := c.QueryParam("confirmation_token")
	if raw, ok := body["confirmation_token"]; ok {
		var t string
		if err := json.Unmarshal(raw, &t); err == nil && t != "" {
			rawToken = t
		}
	}

	var params passwordParams
	if raw, ok := body[s.adminCfg.AccountKind]; ok {
		if err := json.Unmarshal(raw, &params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}

	result, err := s.confirmationSvc.Confirm(c.Request().Context(), rawToken, params.Password, params.PasswordConfirmation)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process confirmation")
	}

	return s.renderConfirmationResult(c, result)
}

// renderConfirmationResult maps a confirmation outcome to its HTTP shape.
// Recoverable failures are 422 with the attempt's field errors; inert and
// successful outcomes are 200.
func (s *Server) renderConfirmationResult(c echo.Context, result *admin.ConfirmationResult) error {
	confirmationOutcomes.WithLabelValues(string(result.Outcome)).Inc()

	switch result.Outcome {
	case admin.OutcomeConfirmed:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"outcome":         result.Outcome,
			"email":           result.Account.Email,
			"tokens":          result.SignIn.Tokens,
			"redirect_to":     result.SignIn.RedirectTo,
			"redirect_source": result.SignIn.RedirectSource,
		})

	case admin.OutcomeAlreadyConfirmed:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"outcome": result.Outcome,
			"message": "account is already confirmed",
		})

	case admin.OutcomePasswordRequired:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"outcome":            result.Outcome,
			"requires_password":  true,
			"email":              result.Account.Email,
			"confirmation_token": result.Token,
		})

	case admin.OutcomeValidationFailed, admin.OutcomePasswordAlreadySet:
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"outcome":            result.Outcome,
			"errors":             result.Errors,
			"confirmation_token": result.Token,
		})

	case admin.OutcomeInvalidToken:
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"outcome": result.Outcome,
			"errors":  result.Errors,
		})

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "unknown confirmation outcome")
	}
}
