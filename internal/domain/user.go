package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex:idx_users_tenant_email,priority:2" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	FirstName    string    `gorm:"type:text;not null" json:"first_name"`
	LastName     string    `gorm:"type:text;not null" json:"last_name"`
	TenantSlug   string    `gorm:"type:text;not null;uniqueIndex:idx_users_tenant_email,priority:1" json:"tenant_slug"`
	Role         Role      `gorm:"type:text;not null;default:'MEMBER'" json:"role"`
	CreatedAt    time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Tenant       *Tenant   `gorm:"foreignKey:TenantSlug;references:Slug;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserFilter struct {
	TenantSlug string `json:"tenant_slug"`
	Role       Role   `json:"role"`
}
