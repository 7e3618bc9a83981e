// Package runner implements the processor chain and per-task host fan-out
// (spec §4.4 and §4.6, components C4 and C6).
//
// The host fan-out is grounded directly on
// orchestrate/workflows/parallel.go's ProcessParallel: an indexed work
// queue, a fixed worker pool, and an indexed result collector that
// restores input order despite out-of-order completion. The
// auto-detected worker count formula (min(NumCPU*2, WorkerCap,
// len(items))) is reused verbatim — it was tuned for I/O-bound work
// there, which per-host device interaction also is.
package runner

import "github.com/nornflow-io/nornflow/catalog"

// Processor observes a task's lifecycle across its full host fan-out.
// The variable-resolving processor (VarsProcessor) is always the first
// entry in a Chain — constructing a Chain via NewChain enforces that, so
// every other processor sees already-resolved arguments.
type Processor interface {
	TaskStarted(task string, hosts []string)
	TaskInstanceStarted(task, host string)
	TaskInstanceCompleted(task, host string, result catalog.Result)
	TaskCompleted(task string, agg catalog.AggregatedResult)
}

// ShushAware is an optional Processor capability (spec's
// supports_shush_hook flag): a processor that implements this and
// returns true participates in the shush hook's
// suppress-if-supported-else-warn protocol. Checked via type assertion,
// never reflection — the same capability-tagged dispatch style as
// hooks.PreHostFilter/PostResultHook.
type ShushAware interface {
	SupportsShush() bool
}

// Chain invokes a sequence of Processors in order for every callback.
type Chain []Processor

// AnySupportsShush reports whether any processor in the chain advertises
// ShushAware support.
func (c Chain) AnySupportsShush() bool {
	for _, p := range c {
		if sa, ok := p.(ShushAware); ok && sa.SupportsShush() {
			return true
		}
	}
	return false
}

// NewChain builds a Chain with vars as the mandatory first processor.
func NewChain(vars *VarsProcessor, rest ...Processor) Chain {
	return append(Chain{vars}, rest...)
}

func (c Chain) TaskStarted(task string, hosts []string) {
	for _, p := range c {
		p.TaskStarted(task, hosts)
	}
}

func (c Chain) TaskInstanceStarted(task, host string) {
	for _, p := range c {
		p.TaskInstanceStarted(task, host)
	}
}

func (c Chain) TaskInstanceCompleted(task, host string, result catalog.Result) {
	for _, p := range c {
		p.TaskInstanceCompleted(task, host, result)
	}
}

func (c Chain) TaskCompleted(task string, agg catalog.AggregatedResult) {
	for _, p := range c {
		p.TaskCompleted(task, agg)
	}
}
