package workflow

import "errors"

// Sentinel errors for workflow loading and execution.
var (
	ErrNoTasks           = errors.New("workflow: has no tasks")
	ErrUnknownTask       = errors.New("workflow: references an unregistered task")
	ErrUnknownHook       = errors.New("workflow: references an unregistered hook")
	ErrUnknownProcessor  = errors.New("workflow: references an unregistered processor")
	ErrBlueprintCycle    = errors.New("workflow: blueprint expansion detected a cycle")
	ErrBlueprintNotFound = errors.New("workflow: blueprint not found")
)
