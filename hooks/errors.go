package hooks

import "errors"

// Sentinel errors for the hook registry.
var (
	ErrNotFound      = errors.New("hooks: hook not found")
	ErrAlreadyExists = errors.New("hooks: hook already registered")
	ErrEmptyName     = errors.New("hooks: hook name is empty")
)
