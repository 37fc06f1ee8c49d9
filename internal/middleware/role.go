package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that rejects any request whose
// authenticated principal does not carry the admin flag. It assumes
// JWTAuth ran earlier in the chain and stored the flag in the context;
// a missing flag is treated the same as a non-admin user. The gate is a
// pure predicate: it either forwards the request untouched or ends it
// with 403 Forbidden.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAdmin(c) {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "admin access required"})
			}
			return next(c)
		}
	}
}
