package dto

import (
	"github.com/kingrain94/notes-saas-api/internal/domain"
)

// ToNote converts a NoteRequest DTO to a Note owned by the given principal.
func (r *NoteRequest) ToNote(principal domain.Principal) *domain.Note {
	return &domain.Note{
		TenantSlug: principal.TenantSlug,
		UserID:     principal.UserID,
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		Tags:       r.Tags,
		Pinned:     r.Pinned,
		Color:      r.Color,
	}
}

func FromNote(note *domain.Note) *NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return &NoteResponse{
		ID:         note.ID,
		TenantSlug: note.TenantSlug,
		UserID:     note.UserID,
		Title:      note.Title,
		Content:    note.Content,
		Category:   note.Category,
		Tags:       tags,
		Pinned:     note.Pinned,
		Color:      note.Color,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

func FromNotes(notes []domain.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i := range notes {
		responses[i] = *FromNote(&notes[i])
	}
	return responses
}

func FromUser(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		FullName:   user.FullName(),
		TenantSlug: user.TenantSlug,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}
}

func FromUsers(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = *FromUser(&users[i])
	}
	return responses
}

func FromTenant(tenant *domain.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Slug:      tenant.Slug,
		Plan:      tenant.Plan,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
}

func FromInvitation(invitation *domain.Invitation) *InvitationResponse {
	return &InvitationResponse{
		ID:         invitation.ID,
		TenantSlug: invitation.TenantSlug,
		Email:      invitation.Email,
		Role:       invitation.Role,
		ExpiresAt:  invitation.ExpiresAt,
		Token:      invitation.Token,
	}
}
