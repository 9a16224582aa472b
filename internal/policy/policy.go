// Package policy is the single source of truth for role-based authorization.
// Every protected route names one Operation; whether a role may perform it is
// answered by the static table below and nowhere else. The table is evaluated
// only after token verification has succeeded; an unverifiable token never
// reaches the policy.
package policy

// Operation names a class of protected actions. Routes map to operations in
// the router; handlers never re-check roles themselves.
type Operation string

const (
	PaymentRead  Operation = "payment:read"
	PaymentWrite Operation = "payment:write"
	StatsRead    Operation = "stats:read"
	UserRead     Operation = "user:read"
	UserWrite    Operation = "user:write"
)

// table maps each operation to the set of roles allowed to perform it.
// Operations absent from the table are denied for every role.
var table = map[Operation]map[string]bool{
	PaymentRead:  {"admin": true, "viewer": true},
	PaymentWrite: {"admin": true, "viewer": true},
	StatsRead:    {"admin": true, "viewer": true},
	UserRead:     {"admin": true, "viewer": true},
	UserWrite:    {"admin": true},
}

// Allowed reports whether role may perform op. Unknown roles and unknown
// operations fail closed.
func Allowed(role string, op Operation) bool {
	roles, ok := table[op]
	if !ok {
		return false
	}
	return roles[role]
}
