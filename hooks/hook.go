// Package hooks implements the NornFlow hook registry (spec §4.5,
// component C5): named, explicitly-registered task-lifecycle extensions
// attached to individual TaskEntry values in a workflow.
//
// Grounded on tools/registry.go's name-keyed, mutex-guarded map. Two
// departures, both from Design Notes §9: the registry is owned by the
// workflow.Orchestrator instance that uses it, not a package-level
// global; and hook dispatch is by Go type assertion against small marker
// interfaces (PreHostFilter, PostResultHook) rather than the source's
// hasattr(hook, "method") duck-typing probe.
package hooks

import "fmt"

// PreHostFilter hooks run before a task dispatches to its hosts and can
// narrow the host list (e.g. "only run where a prior task changed
// something").
type PreHostFilter interface {
	FilterHosts(hosts []string, args map[string]any) []string
}

// ResultContext is what a PostResultHook receives for one host's result.
// SetRuntime scopes a runtime variable write to that host only.
type ResultContext struct {
	Host       string
	Task       string
	Output     string
	Failed     bool
	SetRuntime func(key string, value any)
}

// PostResultHook hooks run after a task completes against a host and can
// inspect or annotate that host's outcome (e.g. set_to writing the output
// into a runtime variable). Like shush, these never affect
// Result.Failed/AggregatedResult.Failed() — only mutates_variables-style
// side effects (spec §4.4 step 8).
type PostResultHook interface {
	ProcessResult(rc *ResultContext, args map[string]any)
}

// TaskLifecycleContext is what a TaskLifecycleHook receives. Its scope is
// run_once_per_task (spec §3), not per-host, so there is no single host
// to render a device context against: ResolveBool renders v (a bool or a
// template string) against the task's shared, non-host variable layers
// instead. Suppress/Unsuppress mutate the inventory-owned, process-wide
// suppressed-task set (spec §4.5/§5); AnyProcessorSupportsShush is
// precomputed by the runner, which owns the active Chain, so hooks never
// need to see a Processor to check the capability.
type TaskLifecycleContext struct {
	Task                      string
	AnyProcessorSupportsShush bool
	ResolveBool               func(v any) (bool, error)
	Suppress                  func(task string)
	Unsuppress                func(task string)
	Warn                      func(msg string)
}

// TaskLifecycleHook hooks run once per task, regardless of host count:
// TaskStarted before host fan-out begins, TaskCompleted once the
// aggregated result is in hand. shush is the only built-in example.
type TaskLifecycleHook interface {
	TaskStarted(tc *TaskLifecycleContext)
	TaskCompleted(tc *TaskLifecycleContext)
}

// DeferredTemplateHook is the requires_deferred_templates capability
// (spec §3/§4.4 step 1): a hook that needs to inspect a task's raw,
// unrendered argument map before per-host invocation (e.g. to gate on a
// template's literal text rather than its rendered value). Attaching
// even one such hook to a task defers that task's whole argument map —
// the variable-resolving processor stashes it raw instead of rendering
// it at task_instance_started, and the runner calls
// VarsProcessor.ResolveDeferred immediately before invoking the task
// function.
type DeferredTemplateHook interface {
	RequiresDeferredTemplates() bool
}

// Hook is the minimal contract every registered hook satisfies. Most
// hooks additionally implement PreHostFilter and/or PostResultHook;
// Registry dispatch checks for those via type assertion, never by
// reflecting over method names.
type Hook interface {
	Name() string
}

// Constructor builds a Hook from its YAML-sourced args, validating them
// eagerly so a malformed hook config fails at workflow load time instead
// of mid-run.
type Constructor func(args map[string]any) (Hook, error)

// Registry is a name-keyed table of hook constructors.
type Registry struct {
	ctors map[string]Constructor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds ctor under name. Returns ErrAlreadyExists if name is
// taken.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	r.ctors[name] = ctor
	return nil
}

// Build constructs an instance of the hook registered under name.
func (r *Registry) Build(name string, args map[string]any) (Hook, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return ctor(args)
}

// RegisterBuiltins installs the two hooks every workflow can rely on
// without declaring a plugin source: set_to and shush.
func RegisterBuiltins(r *Registry) error {
	if err := r.Register("set_to", newSetToHook); err != nil {
		return err
	}
	if err := r.Register("shush", newShushHook); err != nil {
		return err
	}
	return nil
}
