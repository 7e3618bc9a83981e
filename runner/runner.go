package runner

import (
	"context"
	"time"

	"github.com/nornflow-io/nornflow/catalog"
	"github.com/nornflow-io/nornflow/hooks"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/observability"
	"github.com/nornflow-io/nornflow/template"
	"github.com/nornflow-io/nornflow/vars"
)

// PostResultBinding pairs a constructed hook with the args it was built
// from, preserving per-TaskEntry hook configuration for ProcessResult.
type PostResultBinding struct {
	Hook hooks.PostResultHook
	Name string
	Args map[string]any
}

// TaskSpec is everything RunTask needs to execute one task across a set
// of hosts.
type TaskSpec struct {
	Name               string
	Func               catalog.TaskFunc
	Args               map[string]any
	DeferArgs          bool
	PreHostFilters     []hooks.PreHostFilter
	PostResultHooks    []PostResultBinding
	TaskLifecycleHooks []hooks.TaskLifecycleHook
	DryRun             bool
}

// Runner executes TaskSpecs across an inventory, wiring the variable
// store, task catalog, and observer together the way
// workflow.Orchestrator assembles them for a whole workflow run.
type Runner struct {
	Store     *vars.Store
	Template  *template.Service
	Catalog   *catalog.Registry
	Inventory *inventory.Inventory
	Observer  observability.Observer
	Config    Config
}

func (r *Runner) emit(ctx context.Context, observer observability.Observer, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}

// RunTask runs spec against hosts, returning one AggregatedResult with a
// Result per surviving host (pre-host filters can shrink the set). extra
// processors run alongside the mandatory VarsProcessor that RunTask
// constructs internally.
func (r *Runner) RunTask(ctx context.Context, hosts []inventory.Host, spec TaskSpec, extra ...Processor) (catalog.AggregatedResult, error) {
	observer := r.Observer
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	hostNames := make([]string, len(hosts))
	for i, h := range hosts {
		hostNames[i] = h.Name
	}

	for _, filter := range spec.PreHostFilters {
		filtered := filter.FilterHosts(hostNames, spec.Args)
		if len(filtered) != len(hostNames) {
			r.emit(ctx, observer, observability.EventHostsFilteredByPreHook, observability.LevelInfo, "runner.RunTask",
				map[string]any{"task": spec.Name, "before": len(hostNames), "after": len(filtered)})
		}
		hostNames = filtered
	}

	vp := NewVarsProcessor(r.Store, r.Template, r.Inventory)
	vp.Prepare(spec.Args, spec.DeferArgs)
	chain := NewChain(vp, extra...)

	anySupportsShush := chain.AnySupportsShush()
	for _, h := range spec.TaskLifecycleHooks {
		h.TaskStarted(&hooks.TaskLifecycleContext{
			Task:                      spec.Name,
			AnyProcessorSupportsShush: anySupportsShush,
			ResolveBool:               r.resolveBool,
			Suppress: func(task string) {
				r.Inventory.SuppressTask(task)
			},
			Unsuppress: r.Inventory.UnsuppressTask,
			Warn: func(msg string) {
				r.emit(ctx, observer, observability.EventHookSuppressUnsupp, observability.LevelWarning, "runner.RunTask",
					map[string]any{"task": spec.Name, "message": msg})
			},
		})
	}
	defer func() {
		for _, h := range spec.TaskLifecycleHooks {
			h.TaskCompleted(&hooks.TaskLifecycleContext{Task: spec.Name, Unsuppress: r.Inventory.UnsuppressTask})
		}
	}()

	chain.TaskStarted(spec.Name, hostNames)
	r.emit(ctx, observer, observability.EventTaskStarted, observability.LevelInfo, "runner.RunTask",
		map[string]any{"task": spec.Name, "hosts": len(hostNames)})

	run := func(ctx context.Context, host string) (catalog.Result, error) {
		chain.TaskInstanceStarted(spec.Name, host)
		r.emit(ctx, observer, observability.EventTaskInstanceStarted, observability.LevelVerbose, "runner.RunTask",
			map[string]any{"task": spec.Name, "host": host})

		var args map[string]any
		var err error
		if spec.DeferArgs {
			// Spec §4.6 step 6b: a hook requiring deferred templates means
			// the argument map wasn't rendered at task_instance_started —
			// render it now, immediately before invocation.
			args, err = vp.ResolveDeferred(host)
		} else {
			args, err = vp.Args(host)
		}
		if err != nil {
			result := catalog.Result{Host: host, Task: spec.Name, Failed: true, Err: err}
			chain.TaskInstanceCompleted(spec.Name, host, result)
			return result, nil
		}

		rc := &catalog.RunContext{
			Host:    host,
			Args:    args,
			DryRun:  spec.DryRun,
			Context: ctx,
			SetRuntime: func(key string, value any) {
				r.Store.SetRuntime(host, key, value)
			},
		}

		result, err := spec.Func(rc)
		if err != nil {
			result.Failed = true
			result.Err = err
		}

		r.applyPostResultHooks(spec, host, &result)

		chain.TaskInstanceCompleted(spec.Name, host, result)
		r.emit(ctx, observer, observability.EventTaskInstanceCompleted, observability.LevelVerbose, "runner.RunTask",
			map[string]any{"task": spec.Name, "host": host, "failed": result.Failed})
		return result, nil
	}

	results, _ := fanOut(ctx, r.Config, hostNames, run)

	agg := catalog.AggregatedResult{Task: spec.Name, Results: results}
	chain.TaskCompleted(spec.Name, agg)
	r.emit(ctx, observer, observability.EventTaskCompleted, observability.LevelInfo, "runner.RunTask",
		map[string]any{"task": spec.Name, "failed": agg.Failed()})

	if agg.Failed() {
		return agg, ErrTaskFailed
	}
	return agg, nil
}

// applyPostResultHooks dispatches each bound hook's ProcessResult against
// host's outcome (spec §4.4 step 8) — annotation/variable side effects
// only; none of these can mark a result Failed or suppress it.
func (r *Runner) applyPostResultHooks(spec TaskSpec, host string, result *catalog.Result) {
	for _, binding := range spec.PostResultHooks {
		rc := &hooks.ResultContext{
			Host:   host,
			Task:   spec.Name,
			Output: result.Output,
			Failed: result.Failed,
			SetRuntime: func(key string, value any) {
				r.Store.SetRuntime(host, key, value)
			},
		}
		binding.Hook.ProcessResult(rc, binding.Args)
	}
}

// resolveBool renders v against the task's shared (non-host) variable
// layers — used by run_once_per_task hooks like shush that have no
// single host to build a per-host device context from.
func (r *Runner) resolveBool(v any) (bool, error) {
	return r.Template.ResolveToBool(v, r.Store.Merged(""))
}
