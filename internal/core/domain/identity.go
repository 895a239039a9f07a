package domain

import "time"

// User mirrors the persisted representation in the users table. Every user is
// bound to exactly one role.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	RoleID       string
	Role         *Role
	IsActive     bool
	IsVerified   bool
	RegisteredAt time.Time
	LastLogin    *time.Time
}

// Actor is the authenticated identity a workflow operation runs as. Resolved
// from the access token by the authentication layer.
type Actor struct {
	ID          string
	Name        string
	RoleSlug    string
	Permissions []string
}

// HasPermission reports whether the actor's permission set contains name.
func (a Actor) HasPermission(name string) bool {
	for _, p := range a.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
