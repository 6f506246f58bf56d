package models

import "errors"

// Mutation error taxonomy. Handlers map these to HTTP statuses, everything
// else is treated as an internal error.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
)
