package domain

import (
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Tenant struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex:idx_tenants_slug" json:"slug"`
	Plan      Plan      `gorm:"type:text;not null;default:'FREE'" json:"plan"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// IsValidSlug reports whether s can be used as a tenant slug.
func IsValidSlug(s string) bool {
	return len(s) >= 2 && len(s) <= 63 && slugPattern.MatchString(s)
}

// TenantUsage is the point-in-time usage of a tenant, used for limit reporting.
type TenantUsage struct {
	Notes int64 `json:"notes"`
	Users int64 `json:"users"`
}
