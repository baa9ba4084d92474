package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user id stored by JWTAuth.
func UserID(c echo.Context) (string, bool) {
	s, ok := c.Get(ctxUserID).(string)
	return s, ok && s != ""
}

// Role returns the role stored by JWTAuth, or "".
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// identity keys rate-limit buckets: the user id, or "anon".
func identity(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return id
	}
	return "anon"
}
