package domain

import "time"

// Invitation is a pending offer for an email address to join a tenant with a role.
type Invitation struct {
	ID         string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TenantSlug string     `gorm:"type:text;not null;index" json:"tenant_slug"`
	Email      string     `gorm:"type:text;not null" json:"email"`
	Role       Role       `gorm:"type:text;not null;default:'MEMBER'" json:"role"`
	Token      string     `gorm:"type:text;not null;uniqueIndex" json:"-"`
	InvitedBy  string     `gorm:"type:uuid;not null" json:"invited_by"`
	ExpiresAt  time.Time  `gorm:"type:timestamp with time zone;not null;index" json:"expires_at"`
	AcceptedAt *time.Time `gorm:"type:timestamp with time zone" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	Tenant     *Tenant    `gorm:"foreignKey:TenantSlug;references:Slug;constraint:OnDelete:CASCADE" json:"-"`
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) IsPending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
