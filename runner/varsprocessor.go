package runner

import (
	"sync"

	"github.com/nornflow-io/nornflow/catalog"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/template"
	"github.com/nornflow-io/nornflow/vars"
)

// VarsProcessor is the mandatory first processor in every Chain: it
// renders a task's declared arguments against each host's device context
// before the task function ever runs (spec §4.4). If the task carries a
// hook declaring requires_deferred_templates, the whole argument map is
// deferred instead: it is stashed raw at task_instance_started and the
// runner calls ResolveDeferred immediately before invoking the task
// function, so a hook needing the raw template text (e.g. a conditional
// gate) gets to see it first.
type VarsProcessor struct {
	store *vars.Store
	tmpl  *template.Service
	inv   *inventory.Inventory

	rawArgs  map[string]any
	deferAll bool

	mu       sync.Mutex
	resolved map[string]map[string]any
	deferred map[string]bool
	errs     map[string]error
}

// NewVarsProcessor constructs a VarsProcessor bound to store, tmpl, and
// inv. Call Prepare before each task's fan-out.
func NewVarsProcessor(store *vars.Store, tmpl *template.Service, inv *inventory.Inventory) *VarsProcessor {
	return &VarsProcessor{store: store, tmpl: tmpl, inv: inv}
}

// Prepare resets the processor for a new task: rawArgs is the task's
// declared argument map; deferAll defers rendering of the whole map
// until ResolveDeferred is called, one host at a time.
func (p *VarsProcessor) Prepare(rawArgs map[string]any, deferAll bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rawArgs = rawArgs
	p.deferAll = deferAll
	p.resolved = make(map[string]map[string]any)
	p.deferred = make(map[string]bool)
	p.errs = make(map[string]error)
}

func (p *VarsProcessor) TaskStarted(_ string, _ []string) {}

// TaskInstanceStarted resolves the task's arguments against host's
// device context and stashes the result for Args to retrieve. When the
// task defers rendering, the argument map is cleared here instead —
// ResolveDeferred renders it later, right before invocation.
func (p *VarsProcessor) TaskInstanceStarted(_ string, host string) {
	if p.deferAll {
		p.mu.Lock()
		p.resolved[host] = map[string]any{}
		p.deferred[host] = true
		p.mu.Unlock()
		return
	}

	h, _ := p.inv.Get(host)
	ctx := p.store.DeviceContext(h)

	out, firstErr := p.render(p.rawArgs, ctx)

	p.mu.Lock()
	p.resolved[host] = out
	if firstErr != nil {
		p.errs[host] = firstErr
	}
	p.mu.Unlock()
}

// ResolveDeferred renders host's deferred argument map now, replacing
// the empty placeholder TaskInstanceStarted left behind. Safe to call
// even when the task was not deferred — it is then a no-op.
func (p *VarsProcessor) ResolveDeferred(host string) (map[string]any, error) {
	p.mu.Lock()
	if !p.deferred[host] {
		out, err := p.resolved[host], p.errs[host]
		p.mu.Unlock()
		return out, err
	}
	p.mu.Unlock()

	h, _ := p.inv.Get(host)
	ctx := p.store.DeviceContext(h)
	out, firstErr := p.render(p.rawArgs, ctx)

	p.mu.Lock()
	p.resolved[host] = out
	delete(p.deferred, host)
	if firstErr != nil {
		p.errs[host] = firstErr
	}
	p.mu.Unlock()

	return out, firstErr
}

func (p *VarsProcessor) render(raw map[string]any, ctx map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	var firstErr error
	for k, v := range raw {
		rendered, err := p.tmpl.RenderData(v, ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[k] = rendered
	}
	return out, firstErr
}

func (p *VarsProcessor) TaskInstanceCompleted(_, _ string, _ catalog.Result) {}
func (p *VarsProcessor) TaskCompleted(_ string, _ catalog.AggregatedResult)  {}

// Args returns the resolved argument map for host, or the render error if
// resolution failed.
func (p *VarsProcessor) Args(host string) (map[string]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved[host], p.errs[host]
}

// DeviceContext exposes the full per-host render context (vars merged
// with the host namespace) that TaskInstanceStarted and ResolveDeferred
// render against.
func (p *VarsProcessor) DeviceContext(host string) map[string]any {
	h, _ := p.inv.Get(host)
	return p.store.DeviceContext(h)
}
