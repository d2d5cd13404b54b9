package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/webcore/auth-system/internal/api/middleware"
	"github.com/webcore/auth-system/internal/core/domain"
)

// ctxUser returns the user injected by the auth middleware, or nil when the
// request reached the handler without one (exempt path or handler-level auth).
func ctxUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	return user
}
