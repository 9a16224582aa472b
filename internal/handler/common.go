// Package handler implements the HTTP surface. Handlers bind and validate
// requests, call into the repositories with a bounded context, and translate
// repository error kinds into the JSON error envelope.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/middleware"
	"github.com/iliyamo/payment-ledger/internal/model"
	"github.com/iliyamo/payment-ledger/internal/repository"
)

// How long a single store call may run before the request gives up and
// reports a transient failure.
const storeTimeout = 5 * time.Second

// reqCtx bounds a store call with the request context plus the store timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// fail writes the error envelope: a stable machine-readable kind plus a
// human message. Internal details never leave through this path.
func fail(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, echo.Map{
		"error": echo.Map{"kind": kind, "message": msg},
	})
}

// storeFail maps a repository error onto the envelope. Unknown errors are
// reported as a generic internal failure without leaking the cause.
func storeFail(c echo.Context, err error, notFoundMsg string) error {
	switch err {
	case repository.ErrNotFound:
		return fail(c, http.StatusNotFound, "not_found", notFoundMsg)
	case repository.ErrConflict:
		return fail(c, http.StatusConflict, "conflict", "duplicate value for a unique field")
	case repository.ErrTransient:
		return fail(c, http.StatusServiceUnavailable, "transient", "store temporarily unavailable, retry")
	}
	return fail(c, http.StatusInternalServerError, "internal", "internal error")
}

// callerID returns the authenticated user's id from context, zero when absent.
func callerID(c echo.Context) uint64 {
	id, _ := c.Get(middleware.CtxUserID).(uint64)
	return id
}

// callerRole returns the authenticated user's role from context.
func callerRole(c echo.Context) string {
	role, _ := c.Get(middleware.CtxRole).(string)
	return role
}

// ownerScope decides the ledger scope for the caller: admins operate on the
// whole ledger, everyone else only on records they own. Zero means unscoped.
func ownerScope(c echo.Context) uint64 {
	if callerRole(c) == model.RoleAdmin {
		return 0
	}
	return callerID(c)
}
