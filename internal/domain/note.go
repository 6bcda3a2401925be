package domain

import (
	"time"
)

type Note struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TenantSlug string    `gorm:"type:text;not null;index:idx_notes_tenant_updated,priority:1" json:"tenant_slug"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string    `gorm:"type:text;not null" json:"title"`
	Content    string    `gorm:"type:text;not null;default:''" json:"content"`
	Category   string    `gorm:"type:text" json:"category"`
	Tags       []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	Pinned     bool      `gorm:"not null;default:false" json:"pinned"`
	Color      string    `gorm:"type:text" json:"color"`
	CreatedAt  time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP;index:idx_notes_tenant_updated,priority:2" json:"updated_at"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Note) TableName() string {
	return "notes"
}

// NoteFilter scopes a note listing. TenantSlug is always required; UserID narrows the
// listing to one owner and is set for members.
type NoteFilter struct {
	TenantSlug    string    `json:"tenant_slug"`
	UserID        string    `json:"user_id"`
	Category      string    `json:"category"`
	Tag           string    `json:"tag"`
	Pinned        *bool     `json:"pinned"`
	Query         string    `json:"query"`
	UpdatedAfter  time.Time `json:"updated_after"`
	UpdatedBefore time.Time `json:"updated_before"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
	Limit         int       `json:"limit"`
	Offset        int       `json:"offset"`
}

// NoteEventType names a change published to live note subscribers.
type NoteEventType string

const (
	NoteCreated NoteEventType = "note.created"
	NoteUpdated NoteEventType = "note.updated"
	NoteDeleted NoteEventType = "note.deleted"
)

type NoteEvent struct {
	Type       NoteEventType `json:"type"`
	TenantSlug string        `json:"tenant_slug"`
	NoteID     string        `json:"note_id"`
	UserID     string        `json:"user_id"`
	Note       *Note         `json:"note,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
