package composables

import "errors"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionExpired  = errors.New("session expired")
)
