package template

import "fmt"

// ValidationError is raised by Compile when a template string has a syntax
// fault (spec §4.1: TemplateValidationError).
type ValidationError struct {
	Template string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template compilation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// EvalError is raised by Render/RenderData when a compiled template fails
// at evaluation time: an undefined name (strict undefined) or any other
// runtime fault (spec §4.1: TemplateError).
type EvalError struct {
	Template string
	Context  string
	Err      error
}

func (e *EvalError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("template evaluation error (%s): %v", e.Context, e.Err)
	}
	return fmt.Sprintf("template evaluation error: %v", e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
