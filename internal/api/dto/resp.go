package dto

import (
	"time"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

type UserResponse struct {
	ID         string      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email      string      `json:"email" example:"admin@acme.test"`
	FirstName  string      `json:"first_name" example:"Admin"`
	LastName   string      `json:"last_name" example:"User"`
	FullName   string      `json:"full_name" example:"Admin User"`
	TenantSlug string      `json:"tenant_slug" example:"acme"`
	Role       domain.Role `json:"role" example:"ADMIN"`
	CreatedAt  time.Time   `json:"created_at" example:"2025-07-17T21:20:48Z"`
}

type TenantResponse struct {
	ID        string      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string      `json:"name" example:"Acme Corporation"`
	Slug      string      `json:"slug" example:"acme"`
	Plan      domain.Plan `json:"plan" example:"FREE"`
	CreatedAt time.Time   `json:"created_at" example:"2025-07-17T21:20:48Z"`
	UpdatedAt time.Time   `json:"updated_at" example:"2025-07-17T21:20:48Z"`
}

// TenantDetailResponse is a tenant with its current usage.
type TenantDetailResponse struct {
	TenantResponse
	NoteCount int64            `json:"note_count" example:"2"`
	UserCount int64            `json:"user_count" example:"2"`
	Limits    domain.LimitInfo `json:"limits"`
}

type LoginResponse struct {
	Token     string          `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string          `json:"token_type" example:"Bearer"`
	ExpiresIn int64           `json:"expires_in" example:"3600"`
	User      UserResponse    `json:"user"`
	Tenant    *TenantResponse `json:"tenant,omitempty"`
}

type MeResponse struct {
	User   UserResponse   `json:"user"`
	Tenant TenantResponse `json:"tenant"`
}

type NoteResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantSlug string    `json:"tenant_slug" example:"acme"`
	UserID     string    `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title      string    `json:"title" example:"Quarterly goals"`
	Content    string    `json:"content" example:"Ship the notes API"`
	Category   string    `json:"category" example:"work"`
	Tags       []string  `json:"tags" example:"planning,q3"`
	Pinned     bool      `json:"pinned" example:"false"`
	Color      string    `json:"color" example:"#ffd166"`
	CreatedAt  time.Time `json:"created_at" example:"2025-07-17T21:20:48Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2025-07-17T21:20:48Z"`
}

type NoteListResponse struct {
	Notes    []NoteResponse `json:"notes"`
	Total    int64          `json:"total" example:"3"`
	Page     int            `json:"page" example:"1"`
	PageSize int            `json:"page_size" example:"20"`
}

type InvitationResponse struct {
	ID         string      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantSlug string      `json:"tenant_slug" example:"acme"`
	Email      string      `json:"email" example:"new.hire@acme.test"`
	Role       domain.Role `json:"role" example:"MEMBER"`
	ExpiresAt  time.Time   `json:"expires_at" example:"2025-07-20T21:20:48Z"`
	// Token is returned to the inviting admin so it can be shared when email is not configured.
	Token string `json:"token" example:"5d1c0f3e9b..."`
}

type ExportResponse struct {
	TenantSlug string    `json:"tenant_slug" example:"acme"`
	Status     string    `json:"status" example:"queued"`
	QueuedAt   time.Time `json:"queued_at" example:"2025-07-17T21:20:48Z"`
}

type DeleteUserResponse struct {
	UserID       string `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	NotesDeleted int64  `json:"notes_deleted" example:"2"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
