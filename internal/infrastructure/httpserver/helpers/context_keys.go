package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyAdminID    ctxKey = "admin_id"
	keyAdminEmail ctxKey = "admin_email"
)

func SetAdminID(c echo.Context, id uuid.UUID) { c.Set(string(keyAdminID), id) }
func GetAdminIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyAdminID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetAdminEmail(c echo.Context, email string) { c.Set(string(keyAdminEmail), email) }
func GetAdminEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyAdminEmail))
	s, ok := v.(string)
	return s, ok
}
