package domain

import "slices"

// Role represents a user's authorization level inside their tenant
type Role string

const (
	// RoleAdmin can manage the tenant: upgrade the plan, invite and remove users, and see every note
	RoleAdmin Role = "ADMIN"

	// RoleMember can manage their own notes only
	RoleMember Role = "MEMBER"
)

// ValidRoles contains all valid roles in the system
var ValidRoles = []Role{RoleAdmin, RoleMember}

// IsValidRole checks if a given role is valid
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, Role(role))
}
