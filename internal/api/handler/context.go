package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rolegate/auth-api/internal/api/middleware"
)

// ctxClaims extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty role proves the
// middleware ran, and every issued token carries a subject.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}

	return userID, role, nil
}
