package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrFieldNotFound      = errors.New("field not found")
	ErrSelfModification   = errors.New("cannot modify own account")
	ErrKeyNotFound        = errors.New("key not found")
	ErrCorruptValue       = errors.New("stored value unreadable")
	ErrSessionRevoked     = errors.New("session expired or revoked")
)
