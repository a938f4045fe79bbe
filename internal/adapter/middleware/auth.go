package middleware

import (
	"net/http"
	"strings"

	"lendbox/internal/infrastructure/auth"

	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// TokenVerifier is the part of auth.TokenManager the middleware needs.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// JWTAuth requires "Authorization: Bearer <token>" and stores the user id on the context.
func JWTAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, errBody("missing bearer token", "unauthorized"))
			}
			claims, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errBody(auth.ErrInvalidToken.Error(), "unauthorized"))
			}
			id, err := claims.UserID()
			if err != nil || id == 0 {
				return c.JSON(http.StatusUnauthorized, errBody(auth.ErrInvalidToken.Error(), "unauthorized"))
			}
			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

// UserID returns the authenticated user, or 0 outside JWTAuth.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(userIDKey).(uint64)
	return id
}

// SetUserID is used by tests and internal callers that authenticate differently.
func SetUserID(c echo.Context, id uint64) { c.Set(userIDKey, id) }

func errBody(msg, code string) map[string]any {
	return map[string]any{"success": false, "error": msg, "code": code}
}
