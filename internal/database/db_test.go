package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	dsn := DSN("ledger", "s3cret", "db.internal", "3306", "payments")

	if !strings.HasPrefix(dsn, "ledger:s3cret@tcp(db.internal:3306)/payments?") {
		t.Fatalf("unexpected dsn prefix: %q", dsn)
	}
	for _, param := range []string{
		"parseTime=true",
		"loc=Local",
		// RowsAffected must count matched rows, not changed rows, or a
		// no-op update on an existing record would surface as not-found.
		"clientFoundRows=true",
	} {
		if !strings.Contains(dsn, param) {
			t.Fatalf("dsn missing %s: %q", param, dsn)
		}
	}
}

func TestDSN_EmptyPassword(t *testing.T) {
	t.Parallel()

	dsn := DSN("ledger", "", "localhost", "3306", "payments")
	if !strings.HasPrefix(dsn, "ledger@tcp(") {
		t.Fatalf("empty password should omit the colon: %q", dsn)
	}
}
