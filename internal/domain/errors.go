package domain

import "errors"

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRequest        = errors.New("request failed")
	ErrValidation     = errors.New("invalid arguments")
	ErrNotFound       = errors.New("not found")
)
