package domain

import "time"

// Role slugs recognised by the workflow allow-lists.
const (
	RoleSuperAdmin    = "super-admin"
	RoleSuperAdminA   = "super-admin-a"
	RoleSuperAdminB   = "super-admin-b"
	RoleAreaAdmin     = "area-admin"
	RoleCommunityLead = "community-lead"
)

// ProtectedRoleSlugs can never be deleted regardless of attached users.
var ProtectedRoleSlugs = map[string]struct{}{
	RoleSuperAdmin:    {},
	RoleSuperAdminA:   {},
	RoleSuperAdminB:   {},
	RoleAreaAdmin:     {},
	RoleCommunityLead: {},
}

// Role carries a static permission set and the slug used for workflow gating.
// The slug is immutable identity; authorization compares it as a plain string.
type Role struct {
	ID          string
	Name        string
	Slug        string
	Description *string
	Permissions []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsProtected reports whether the role's slug belongs to the closed protected set.
func (r Role) IsProtected() bool {
	_, ok := ProtectedRoleSlugs[r.Slug]
	return ok
}

// HasPermission reports whether the role holds the named permission.
func (r Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of the named permissions.
func (r Role) HasAnyPermission(names ...string) bool {
	set := make(map[string]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		set[p] = struct{}{}
	}
	for _, n := range names {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every named permission.
func (r Role) HasAllPermissions(names ...string) bool {
	set := make(map[string]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		set[p] = struct{}{}
	}
	for _, n := range names {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}
