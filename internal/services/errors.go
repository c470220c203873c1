package services

import "errors"

// Failure taxonomy shared by the services. Handlers map these onto HTTP
// status codes; everything else is a 500.
var (
	// ErrUnauthorized means there is no authenticated session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the actor's role or ownership does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced album, media or user is missing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser means the username or email is already taken by an
	// approved user or a pending signup request.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrQuotaExceeded means the upload would push the album owner past
	// the storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrPasswordRequired means the album is password-protected and this
	// session has not unlocked it.
	ErrPasswordRequired = errors.New("album password required")

	// ErrIncorrectPassword means the submitted album password does not
	// match.
	ErrIncorrectPassword = errors.New("incorrect album password")

	// ErrSelfDelete means an admin tried to delete their own account.
	ErrSelfDelete = errors.New("cannot delete your own account")
)
