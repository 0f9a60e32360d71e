package service

import "errors"

// Error kinds returned by the services. The HTTP layer maps them to status
// codes; all are terminal, none is retried internally.
var (
	// ErrUnauthorized covers unknown username and wrong password alike, so
	// a caller cannot probe which usernames exist.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrUserDisabled is deliberately distinguishable from bad credentials
	// so a deactivated operator knows to contact an administrator.
	ErrUserDisabled = errors.New("user disabled")

	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("duplicate resource")
	ErrNotFound   = errors.New("resource not found")
)
