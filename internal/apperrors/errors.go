package apperrors

import (
	"errors"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token already exists")

	// Returned by the authorizer for any lookup failure. The message is what API Gateway
	// authorizers historically answered with, so keep it verbatim.
	ErrInvalidToken = errors.New("Error: Invalid token") //nolint:staticcheck

	ErrUnknownStore = errors.New("unknown store backend")
)
