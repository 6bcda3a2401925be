package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure. The HTTP layer maps each kind to one status.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation_error"
	KindAuthentication ErrorKind = "authentication_error"
	KindAuthorization  ErrorKind = "authorization_error"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindQuotaExceeded  ErrorKind = "quota_exceeded"
	KindRateLimited    ErrorKind = "rate_limited"
	KindInternal       ErrorKind = "internal_error"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, ErrNotFound) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func NewConflictError(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewQuotaExceededError(limit int) *Error {
	return &Error{
		Kind:    KindQuotaExceeded,
		Message: fmt.Sprintf("note limit of %d reached for the FREE plan, upgrade to PRO for unlimited notes", limit),
	}
}

// NewInternalError wraps an unexpected failure. Its message never reaches clients.
func NewInternalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

var (
	// Kind-only sentinels for errors.Is checks.
	ErrValidation     = &Error{Kind: KindValidation}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrForbidden      = &Error{Kind: KindAuthorization}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrQuotaExceeded  = &Error{Kind: KindQuotaExceeded}

	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid email or password"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Message: "invalid or expired token"}
	ErrTenantRequired     = &Error{Kind: KindValidation, Message: "tenant is required: this email belongs to more than one tenant"}
	ErrAdminRequired      = &Error{Kind: KindAuthorization, Message: "admin role required for this tenant"}
	ErrTenantMismatch     = &Error{Kind: KindAuthorization, Message: "access to this tenant is not allowed"}
	ErrCannotDeleteSelf   = &Error{Kind: KindValidation, Message: "admins cannot delete themselves"}

	ErrTenantNotFound     = &Error{Kind: KindNotFound, Message: "tenant not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrNoteNotFound       = &Error{Kind: KindNotFound, Message: "note not found"}
	ErrInvitationNotFound = &Error{Kind: KindNotFound, Message: "invitation not found or expired"}

	ErrTenantExists       = &Error{Kind: KindConflict, Message: "tenant slug already exists"}
	ErrEmailAlreadyExists = &Error{Kind: KindConflict, Message: "email already exists in this tenant"}
)
