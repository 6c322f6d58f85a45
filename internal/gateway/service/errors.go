package service

import "errors"

var (
	ErrMissingCredentials  = errors.New("missing_credentials")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrTokenInvalid        = errors.New("token_invalid")
	ErrTokenExpired        = errors.New("token_expired")
	ErrAuthorizationDenied = errors.New("authorization_denied")
)
