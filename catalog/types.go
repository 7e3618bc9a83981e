// Package catalog holds the task function registry (the things a
// workflow's tasks actually invoke per host) plus the Result/
// AggregatedResult types the runner and orchestrator report through.
//
// Grounded on tools/registry.go's name-keyed, mutex-guarded map, but
// instance-owned rather than a package-level global: Design Notes §9
// calls out removing hidden global registries so multiple workflows (or
// tests) never contend over, or leak state through, one process-wide
// table.
package catalog

import "context"

// Result is what a single task invocation against a single host reports
// back. Changed mirrors the source's "changed" flag: whether the task
// believes it altered device state (meaningless for read-only tasks,
// load-bearing for idempotence reporting on ones that aren't). DryRun and
// Payload carry a task's optional typed report (e.g. write_file's
// WriteFileReport) for callers that want more than the free-text Output.
//
// Note: the shush hook does not set or read any field here. Its
// suppression is a logging-output concern maintained on
// inventory.Inventory's suppressed-task set, not a Result-level one — a
// shushed failure still counts as Failed (spec §4.5).
type Result struct {
	Host    string
	Task    string
	Output  string
	Changed bool
	Failed  bool
	DryRun  bool
	Payload any
	Err     error
}

// AggregatedResult collects every host's Result for one task within a
// workflow run.
type AggregatedResult struct {
	Task    string
	Results []Result
}

// Failed reports whether any host failed this task.
func (a AggregatedResult) Failed() bool {
	for _, r := range a.Results {
		if r.Failed {
			return true
		}
	}
	return false
}

// RunContext is what a TaskFunc receives: its resolved arguments (already
// template-rendered by the variable-resolving processor, spec §4.4) and
// the host it is running against. SetRuntime lets a task write a runtime
// variable back for this host only (the built-in set task goes through
// this; the set_to hook writes through hooks.ResultContext instead).
type RunContext struct {
	Host    string
	Args    map[string]any
	DryRun  bool
	Context context.Context

	SetRuntime func(key string, value any)
}

// TaskFunc is a task implementation: one invocation against one host.
type TaskFunc func(rc *RunContext) (Result, error)
