package apperrors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token expired")
	ErrInsufficientRole       = errors.New("insufficient role")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrRateLimited            = errors.New("rate limited")
	ErrInvalidRole            = errors.New("invalid role")
	ErrTransitionNotAllowed   = errors.New("status transition not allowed")
)
