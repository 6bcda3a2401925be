package dto

// Error represents a standard error response
type Error struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message" example:"note not found"`
}
