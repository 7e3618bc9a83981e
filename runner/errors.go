package runner

import "errors"

// ErrTaskFailed is returned by Runner.RunTask, alongside the full
// AggregatedResult, whenever at least one host's Result is Failed.
var ErrTaskFailed = errors.New("runner: task failed on at least one host")

// Sentinel errors for the processor registry.
var (
	ErrProcessorNotFound      = errors.New("runner: processor not found")
	ErrProcessorAlreadyExists = errors.New("runner: processor already registered")
	ErrProcessorEmptyName     = errors.New("runner: processor name is empty")
)
