package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@acme.test"`
	Password string `json:"password" binding:"required" example:"password"`
	// Tenant disambiguates an email registered in more than one tenant.
	Tenant string `json:"tenant" example:"acme"`
}

type RegisterRequest struct {
	TenantName string `json:"tenant_name" binding:"required,max=100" example:"Initech"`
	TenantSlug string `json:"tenant_slug" binding:"required" example:"initech"`
	Email      string `json:"email" binding:"required,email" example:"owner@initech.test"`
	Password   string `json:"password" binding:"required" example:"correct-horse"`
	FirstName  string `json:"first_name" binding:"required,max=100" example:"Bill"`
	LastName   string `json:"last_name" binding:"max=100" example:"Lumbergh"`
}

type AcceptInviteRequest struct {
	Token     string `json:"token" binding:"required" example:"5d1c0f3e9b..."`
	Password  string `json:"password" binding:"required" example:"correct-horse"`
	FirstName string `json:"first_name" binding:"required,max=100" example:"Peter"`
	LastName  string `json:"last_name" binding:"max=100" example:"Gibbons"`
}

// NoteRequest is the body of note create and update. Update replaces every field.
type NoteRequest struct {
	Title    string   `json:"title" example:"Quarterly goals"`
	Content  string   `json:"content" example:"Ship the notes API"`
	Category string   `json:"category" example:"work"`
	Tags     []string `json:"tags" example:"planning,q3"`
	Pinned   bool     `json:"pinned" example:"false"`
	Color    string   `json:"color" example:"#ffd166"`
}

type InviteUserRequest struct {
	Email string `json:"email" binding:"required,email" example:"new.hire@acme.test"`
	Role  string `json:"role" example:"MEMBER"`
}

// ListNotesQuery holds the GET /notes query string.
type ListNotesQuery struct {
	Page          int    `form:"page" example:"1"`
	PageSize      int    `form:"page_size" example:"20"`
	Category      string `form:"category"`
	Tag           string `form:"tag"`
	Pinned        *bool  `form:"pinned"`
	Q             string `form:"q"`
	UpdatedAfter  string `form:"updated_after" example:"2025-01-01"`
	UpdatedBefore string `form:"updated_before" example:"2025-12-31T23:59:59Z"`
}
