package middleware // middleware contains reusable HTTP middleware functions

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/utils"
)

// Context keys populated by JWTAuth for downstream middleware and handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the verified claims into the request context. The provided
// secret must match the one used when issuing tokens. Expired and tampered
// tokens are logged differently but the client always sees the same generic
// 401. A missing or unverifiable token never reaches the access policy.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				if err == utils.ErrTokenExpired {
					log.Printf("auth: expired token from %s", c.RealIP())
				} else {
					log.Printf("auth: invalid token from %s", c.RealIP())
				}
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": echo.Map{"kind": "unauthorized", "message": msg},
	})
}
