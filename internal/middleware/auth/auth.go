package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/web_store/internal/token"
)

const CtxUsername = "username"

// Middleware resolves the bearer token from the configured header. A
// missing header, a wrong prefix, a bad signature or an expired token all
// leave the request anonymous; nothing fails here. Rejection is the job
// of RequireLogin on the routes that need a principal.
func Middleware(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := tokens.FromHeader(c.Request().Header.Get(tokens.HeaderName()))
			if !ok {
				return next(c)
			}
			username, err := tokens.Verify(raw)
			if err != nil {
				return next(c)
			}
			c.Set(CtxUsername, username)
			return next(c)
		}
	}
}

// RequireLogin rejects requests that reached the handler without an
// authenticated principal.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Username(c) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// Username returns the authenticated principal, or "" for anonymous
// requests.
func Username(c echo.Context) string {
	username, _ := c.Get(CtxUsername).(string)
	return username
}
