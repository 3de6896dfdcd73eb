package middleware

// identity.go holds the caller lookup shared by the rate limiter and the
// request logger.

import "github.com/labstack/echo/v4"

// userID returns the authenticated user id stored by JWTAuth, or "anon"
// before authentication has run.
func userID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
