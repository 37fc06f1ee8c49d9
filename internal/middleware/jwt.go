package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// Context keys under which the authenticated principal is stored. The
// admin gate and the handlers read these instead of re-parsing the
// token.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxIsAdmin  = "is_admin"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the principal (user id, username, admin flag) into the
// request context. The provided secret must match the one used when
// issuing tokens. Requests without a valid token are rejected with 401
// before the downstream handler runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; any other signing method is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}

			// Numeric claims decode as float64 from JSON.
			if sub, ok := claims["sub"].(float64); ok {
				c.Set(CtxUserID, uint64(sub))
			}
			if name, ok := claims["username"].(string); ok {
				c.Set(CtxUsername, name)
			}
			admin, _ := claims["admin"].(bool)
			c.Set(CtxIsAdmin, admin)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id from the context. The
// boolean is false when the request did not pass through JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// IsAdmin reports whether the authenticated principal carries the admin
// flag. Unauthenticated requests are never admin.
func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get(CtxIsAdmin).(bool)
	return admin
}
