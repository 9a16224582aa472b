// Package repository contains data access logic separated from HTTP handlers.
// This file defines the error kinds every repository translates store
// failures into. Handlers map these sentinels onto HTTP statuses; no raw
// driver error ever crosses the handler boundary.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when no matching record exists, or when an
// owner-scoped lookup hits a record owned by someone else. The two cases are
// deliberately indistinguishable so existence never leaks across owners.
// Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write, such as
// a duplicate username or email, or a transaction id that survived the
// regeneration retries. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrTransient is returned for timeouts and connection failures. The request
// failed without saying anything about the data, so clients may safely
// retry. Handlers translate this into HTTP 503.
var ErrTransient = errors.New("store unavailable")

// translate maps raw store errors onto the sentinel kinds above. Errors that
// match no kind pass through unchanged and end up as a 500.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return ErrTransient
	}
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
