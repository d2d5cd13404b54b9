package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextUserKey is the echo context key under which RequireAuth stores the
// resolved user.
const ContextUserKey = "user"

// RequiresAuth reports whether the path needs authentication. Comparison is
// exact after normalizing both sides to a trailing slash. An empty exempt set
// means every path requires authentication, and an empty path always does.
func RequiresAuth(path string, exemptPaths []string) bool {
	if path == "" {
		return true
	}
	if len(exemptPaths) == 0 {
		return true
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	for _, exempt := range exemptPaths {
		if exempt == "" {
			continue
		}
		if !strings.HasSuffix(exempt, "/") {
			exempt += "/"
		}
		if path == exempt {
			return false
		}
	}
	return true
}

// RequireAuth guards every non-exempt path with the given identity strategy.
// A request without any credential material is rejected with 401; credentials
// that fail to resolve to a user yield 403.
func RequireAuth(resolver IdentityResolver, exemptPaths []string, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !RequiresAuth(c.Request().URL.Path, exemptPaths) {
				return next(c)
			}

			hasCredentials := c.Request().Header.Get("Authorization") != ""
			if !hasCredentials {
				if _, err := c.Cookie(cookieName); err == nil {
					hasCredentials = true
				}
			}
			if !hasCredentials {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			user, err := resolver.ResolveIdentity(c)
			if err != nil {
				return err
			}
			if user == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
