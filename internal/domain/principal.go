package domain

// Principal is the authenticated caller of a request, resolved once by the auth
// middleware and carried explicitly through the call chain.
type Principal struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	TenantSlug string `json:"tenant_slug"`
	Role       Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// BelongsTo reports whether the principal is a user of the tenant identified by slug.
func (p Principal) BelongsTo(slug string) bool {
	return p.TenantSlug != "" && p.TenantSlug == slug
}

// CanManageTenant reports whether the principal may run admin operations on slug.
func (p Principal) CanManageTenant(slug string) bool {
	return p.IsAdmin() && p.BelongsTo(slug)
}

// CanModifyNote reports whether the principal may read or change note. Admins reach every
// note of their tenant; members only their own.
func (p Principal) CanModifyNote(note *Note) bool {
	if note == nil || note.TenantSlug != p.TenantSlug {
		return false
	}
	return p.IsAdmin() || note.UserID == p.UserID
}
