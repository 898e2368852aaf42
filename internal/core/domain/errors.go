package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrListingNotFound    = errors.New("place not found")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrAccountConflict is returned when a federated login carries an email
	// already owned by a local account. Accounts are never merged.
	ErrAccountConflict = errors.New("an account with this email already exists")

	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrMediaUnavailable = errors.New("media backend unavailable")
)
