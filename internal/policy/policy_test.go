package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role string
		op   Operation
		want bool
	}{
		{"viewer reads payments", "viewer", PaymentRead, true},
		{"viewer writes payments", "viewer", PaymentWrite, true},
		{"viewer reads stats", "viewer", StatsRead, true},
		{"viewer reads users", "viewer", UserRead, true},
		{"viewer cannot write users", "viewer", UserWrite, false},
		{"admin writes users", "admin", UserWrite, true},
		{"admin reads payments", "admin", PaymentRead, true},
		{"unknown role denied", "superuser", PaymentRead, false},
		{"empty role denied", "", PaymentRead, false},
		{"unknown operation fails closed", "admin", Operation("ledger:truncate"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.op))
		})
	}
}
