package catalog

import "errors"

// Sentinel errors for the task catalog.
var (
	ErrNotFound      = errors.New("catalog: task not found")
	ErrAlreadyExists = errors.New("catalog: task already registered")
	ErrEmptyName     = errors.New("catalog: task name is empty")

	// ErrMissingArg is returned by a built-in task when a required
	// argument is absent from RunContext.Args.
	ErrMissingArg = errors.New("catalog: missing required arg")

	// ErrParentMissing is write_file's failure when mkdir is false and
	// the destination's parent directory does not exist (spec §6).
	ErrParentMissing = errors.New("catalog: parent directory does not exist")
)
