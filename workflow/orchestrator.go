package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nornflow-io/nornflow/catalog"
	"github.com/nornflow-io/nornflow/config"
	"github.com/nornflow-io/nornflow/hooks"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/observability"
	"github.com/nornflow-io/nornflow/runner"
	"github.com/nornflow-io/nornflow/template"
	"github.com/nornflow-io/nornflow/vars"
)

// Option configures an Orchestrator after config-driven initialization.
// Applied by New after cold start — overrides replace config-created
// defaults, the same contract kernel.Option gives kernel.New callers.
type Option func(*Orchestrator)

// WithCatalog overrides the config-created task registry.
func WithCatalog(c *catalog.Registry) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithHooks overrides the config-created hook registry.
func WithHooks(h *hooks.Registry) Option {
	return func(o *Orchestrator) { o.hooks = h }
}

// WithProcessors overrides the config-created processor registry.
func WithProcessors(p *runner.ProcessorRegistry) Option {
	return func(o *Orchestrator) { o.processors = p }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(obs observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithBlueprints registers additional blueprints a workflow's tasks can
// reference via TaskEntry.BlueprintOf.
func WithBlueprints(bp BlueprintSet) Option {
	return func(o *Orchestrator) {
		for name, w := range bp {
			o.blueprints[name] = w
		}
	}
}

// Orchestrator loads, validates, and runs Workflow definitions against an
// inventory (spec §4.7). It owns every subsystem a run needs: the
// variable store, template service, task and hook registries, and the
// runner that fans a task out across hosts.
type Orchestrator struct {
	store      *vars.Store
	tmpl       *template.Service
	catalog    *catalog.Registry
	hooks      *hooks.Registry
	processors *runner.ProcessorRegistry
	inventory  *inventory.Inventory
	observer   observability.Observer
	cfg        config.EngineConfig
	blueprints BlueprintSet
}

// New creates an Orchestrator from configuration and an inventory.
// Domain defaults are loaded eagerly from cfg.DomainDefaultsDir if set.
// Functional options applied after initialization can override the task,
// hook and processor registries and the observer, or add blueprints.
func New(cfg config.EngineConfig, inv *inventory.Inventory, opts ...Option) (*Orchestrator, error) {
	store := vars.New()
	if cfg.DomainDefaultsDir != "" {
		if err := store.LoadDomainDefaults(cfg.DomainDefaultsDir); err != nil {
			return nil, fmt.Errorf("failed to load domain defaults: %w", err)
		}
	}

	cat := catalog.New()
	if err := catalog.RegisterBuiltins(cat); err != nil {
		return nil, fmt.Errorf("failed to register builtin tasks: %w", err)
	}

	hookReg := hooks.New()
	if err := hooks.RegisterBuiltins(hookReg); err != nil {
		return nil, fmt.Errorf("failed to register builtin hooks: %w", err)
	}

	procReg := runner.NewProcessorRegistry()
	if err := runner.RegisterBuiltinProcessors(procReg); err != nil {
		return nil, fmt.Errorf("failed to register builtin processors: %w", err)
	}

	o := &Orchestrator{
		store:      store,
		tmpl:       template.New(),
		catalog:    cat,
		hooks:      hookReg,
		processors: procReg,
		inventory:  inv,
		observer:   observability.NewSlogObserver(slog.Default()),
		cfg:        cfg,
		blueprints: make(BlueprintSet),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Store exposes the orchestrator's variable store, e.g. for a caller to
// seed LayerCLI/LayerEnvironment before Run.
func (o *Orchestrator) Store() *vars.Store { return o.store }

// Run validates w, expands any blueprint references, and executes its
// tasks in order against the inventory hosts matching w.InventoryFilters
// (every host when it is empty), enforcing w's
// FailureStrategy across task boundaries.
func (o *Orchestrator) Run(ctx context.Context, w *Workflow) (*Summary, error) {
	if err := w.Validate(o.catalog, o.hooks, o.processors); err != nil {
		return nil, err
	}

	strategy, err := ParseFailureStrategy(string(w.FailureStrategy))
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	summary := &Summary{RunID: runID, Workflow: w.Name}

	o.blueprints[w.Name] = w
	tasks, err := o.expandedTasks(w)
	if err != nil {
		return nil, err
	}

	o.emit(ctx, observability.EventWorkflowStart, observability.LevelInfo, "workflow.Orchestrator.Run",
		map[string]any{"workflow": w.Name, "run_id": runID, "tasks": len(tasks)})

	if len(w.Vars) > 0 {
		o.store.SetLayer(vars.LayerWorkflow, w.Vars)
	}

	r := &runner.Runner{
		Store:     o.store,
		Template:  o.tmpl,
		Catalog:   o.catalog,
		Inventory: o.inventory,
		Observer:  o.observer,
		Config: runner.Config{
			MaxWorkers: o.cfg.Runner.MaxWorkers,
			WorkerCap:  o.cfg.Runner.WorkerCap,
			FailFast:   o.cfg.Runner.FailFast,
		},
	}

	// Merge the workflow's inventory_filters with the engine-wide
	// inventory once, up front, rather than re-filtering per task
	// (spec §4.7: "Merge workflow-scope inventory filters with any
	// engine-wide filter to produce the working inventory").
	workingHosts := o.inventory.Apply(w.InventoryFilters)

	extraProcessors, err := o.buildProcessors(w)
	if err != nil {
		return nil, err
	}

	hostRunner := runner.LocalHostRunner{}
	defer func() { _ = hostRunner.Close() }()

	for _, entry := range tasks {
		if err := ctx.Err(); err != nil {
			summary.Aborted = true
			break
		}

		spec, err := o.buildSpec(entry, w.DryRun)
		if err != nil {
			return nil, err
		}

		agg, runErr := r.RunTask(ctx, workingHosts, spec, extraProcessors...)
		summary.TaskResult = append(summary.TaskResult, agg)

		if runErr != nil && strategy == StopOnFirstError {
			summary.Aborted = true
			break
		}
	}

	o.emit(ctx, observability.EventWorkflowSummary, observability.LevelInfo, "workflow.Orchestrator.Run",
		map[string]any{"workflow": w.Name, "run_id": runID, "exit_code": summary.ExitCode(), "aborted": summary.Aborted})

	return summary, nil
}

func (o *Orchestrator) expandedTasks(w *Workflow) ([]TaskEntry, error) {
	needsExpansion := false
	for _, t := range w.Tasks {
		if t.BlueprintOf != "" {
			needsExpansion = true
			break
		}
	}
	if !needsExpansion {
		return w.Tasks, nil
	}
	return ExpandBlueprints(w.Name, o.blueprints)
}

// buildSpec resolves entry's task and hooks into a runner.TaskSpec.
// workflowDryRun is the workflow-level dry-run flag (spec §4.7: "Thread a
// single dry-run flag through to the Host Runner"); it is OR'd with the
// entry's own dry_run so either scope can request it.
func (o *Orchestrator) buildSpec(entry TaskEntry, workflowDryRun bool) (runner.TaskSpec, error) {
	fn, ok := o.catalog.Get(entry.Name)
	if !ok {
		return runner.TaskSpec{}, fmt.Errorf("%w: %s", ErrUnknownTask, entry.Name)
	}

	spec := runner.TaskSpec{
		Name:   entry.Name,
		Func:   fn,
		Args:   entry.Args,
		DryRun: workflowDryRun || entry.DryRun,
	}

	for _, hc := range entry.Hooks {
		h, err := o.hooks.Build(hc.Name, hc.Args)
		if err != nil {
			return runner.TaskSpec{}, fmt.Errorf("%w: %s: %v", ErrUnknownHook, hc.Name, err)
		}
		if pf, ok := h.(hooks.PreHostFilter); ok {
			spec.PreHostFilters = append(spec.PreHostFilters, pf)
		}
		if pr, ok := h.(hooks.PostResultHook); ok {
			spec.PostResultHooks = append(spec.PostResultHooks, runner.PostResultBinding{Hook: pr, Name: hc.Name, Args: hc.Args})
		}
		if lc, ok := h.(hooks.TaskLifecycleHook); ok {
			spec.TaskLifecycleHooks = append(spec.TaskLifecycleHooks, lc)
		}
		if dt, ok := h.(hooks.DeferredTemplateHook); ok && dt.RequiresDeferredTemplates() {
			spec.DeferArgs = true
		}
	}

	return spec, nil
}

// buildProcessors constructs w's declaratively-configured processors
// (spec §4.7: "Apply processors declared in workflow YAML on top of the
// engine-default chain, preserving order").
func (o *Orchestrator) buildProcessors(w *Workflow) ([]runner.Processor, error) {
	procs := make([]runner.Processor, 0, len(w.Processors))
	for _, pc := range w.Processors {
		p, err := o.processors.Build(pc.Name, pc.Args, o.inventory, o.observer)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownProcessor, pc.Name, err)
		}
		procs = append(procs, p)
	}
	return procs, nil
}

func (o *Orchestrator) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	observer := o.observer
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
