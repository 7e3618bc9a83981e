package hooks

import (
	"fmt"

	"github.com/nornflow-io/nornflow/template"
)

// shushHook is a run_once_per_task pre-hook with no filters_hosts or
// processes_results capability (spec §4.5/§9): when its parameter
// resolves truthy, it marks the task name in the inventory's process-wide
// suppressed-task set — consulted only by logging processors to silence
// output — and clears the mark when the task completes. It never touches
// Result.Failed or AggregatedResult.Failed(); suppression here is a
// logging concern, not a failure-strategy one.
type shushHook struct {
	param any // bool, or a template string resolved at TaskStarted
}

// newShushHook validates its parameter at construction (workflow load
// time, spec §4.5's execute_hook_validations): a bool is always valid; a
// string must contain a template marker, since a plain string with none
// is ambiguous and must be rejected. An absent parameter defaults to
// true — "shush" with no args means "always suppress."
func newShushHook(args map[string]any) (Hook, error) {
	param, ok := args["enabled"]
	if !ok {
		param = true
	}
	if s, isStr := param.(string); isStr && !template.IsTemplate(s) {
		return nil, fmt.Errorf("shush: ambiguous plain-string parameter %q: use a bool or a template", s)
	}
	return &shushHook{param: param}, nil
}

func (h *shushHook) Name() string { return "shush" }

// TaskStarted resolves the hook's parameter and, if truthy, suppresses
// the task in the logging set. A warning is emitted (but suppression
// still happens) when no processor in the active chain advertises
// SupportsShush — suppress-if-supported-else-warn (spec §4.5, S9).
func (h *shushHook) TaskStarted(tc *TaskLifecycleContext) {
	enabled, err := tc.ResolveBool(h.param)
	if err != nil || !enabled {
		return
	}
	if !tc.AnyProcessorSupportsShush {
		tc.Warn(fmt.Sprintf("shush: no processor in the chain advertises shush support for task %q; suppressing anyway", tc.Task))
	}
	tc.Suppress(tc.Task)
}

// TaskCompleted always clears the suppression mark: shush's scope is one
// task, not the rest of the workflow run.
func (h *shushHook) TaskCompleted(tc *TaskLifecycleContext) {
	tc.Unsuppress(tc.Task)
}
