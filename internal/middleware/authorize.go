package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/policy"
)

// Authorize returns a middleware that enforces the access policy for a
// single operation. It assumes JWTAuth has already verified the token and
// stored the role in context; a request arriving here without a role is
// treated as unauthenticated, and a role the policy does not allow gets 403.
func Authorize(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || role == "" {
				return unauthorized(c, "authentication required")
			}
			if !policy.Allowed(role, op) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": echo.Map{"kind": "forbidden", "message": "insufficient role"},
				})
			}
			return next(c)
		}
	}
}
