package model

import "time"

// Roles understood by the access policy. Stored verbatim in the users table
// and carried in the session token's "role" claim.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User represents an application user record as stored in the `users`
// table. Username and email are both unique. The bcrypt hash is never
// serialized: the json:"-" tag keeps it out of every response, and only the
// login path reads it at all.
//
// Accounts are soft-deactivated through IsActive rather than deleted, so
// payment ownership references stay resolvable.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
