package runner

import (
	"context"
	"fmt"

	"github.com/nornflow-io/nornflow/catalog"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/observability"
)

// LoggingProcessor is the built-in consumer of the shush hook's
// suppressed-task set: it logs a per-host failure unless the task is
// currently marked suppressed on the inventory (spec §4.5 "consulted by
// logging processors to silence output"). It advertises SupportsShush so
// shush never has to warn when this processor is in the chain.
type LoggingProcessor struct {
	inv      *inventory.Inventory
	observer observability.Observer
}

// NewLoggingProcessor builds a LoggingProcessor bound to inv and observer.
func NewLoggingProcessor(inv *inventory.Inventory, observer observability.Observer) *LoggingProcessor {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &LoggingProcessor{inv: inv, observer: observer}
}

func (p *LoggingProcessor) SupportsShush() bool { return true }

func (p *LoggingProcessor) TaskStarted(_ string, _ []string)                   {}
func (p *LoggingProcessor) TaskInstanceStarted(_, _ string)                    {}
func (p *LoggingProcessor) TaskCompleted(_ string, _ catalog.AggregatedResult) {}

// TaskInstanceCompleted logs host's failed result, unless task is
// currently shushed — in which case it emits a quieter suppressed-notice
// event instead of dropping the signal entirely.
func (p *LoggingProcessor) TaskInstanceCompleted(task, host string, result catalog.Result) {
	if !result.Failed {
		return
	}
	if p.inv.TaskSuppressed(task) {
		p.observer.OnEvent(context.Background(), observability.Event{
			Type:   observability.EventTaskInstanceFailedSuppressed,
			Level:  observability.LevelVerbose,
			Source: "runner.LoggingProcessor",
			Data:   map[string]any{"task": task, "host": host},
		})
		return
	}
	p.observer.OnEvent(context.Background(), observability.Event{
		Type:   observability.EventTaskInstanceFailedLogged,
		Level:  observability.LevelError,
		Source: "runner.LoggingProcessor",
		Data:   map[string]any{"task": task, "host": host, "error": result.Err},
	})
}

// ProcessorConstructor builds a Processor from its workflow-declared
// args, the active inventory, and observer — mirroring
// hooks.Constructor's shape for the hook registry.
type ProcessorConstructor func(args map[string]any, inv *inventory.Inventory, observer observability.Observer) (Processor, error)

// ProcessorRegistry is a name-keyed table of processor constructors,
// letting a Workflow's declarative `processors` list add to the
// engine-default chain (spec §4.7).
type ProcessorRegistry struct {
	ctors map[string]ProcessorConstructor
}

// NewProcessorRegistry returns an empty ProcessorRegistry.
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{ctors: make(map[string]ProcessorConstructor)}
}

// Register adds ctor under name. Returns ErrProcessorAlreadyExists if
// name is taken.
func (r *ProcessorRegistry) Register(name string, ctor ProcessorConstructor) error {
	if name == "" {
		return ErrProcessorEmptyName
	}
	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("%w: %s", ErrProcessorAlreadyExists, name)
	}
	r.ctors[name] = ctor
	return nil
}

// Build constructs the processor registered under name.
func (r *ProcessorRegistry) Build(name string, args map[string]any, inv *inventory.Inventory, observer observability.Observer) (Processor, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProcessorNotFound, name)
	}
	return ctor(args, inv, observer)
}

// RegisterBuiltinProcessors installs the one processor every workflow
// can rely on without declaring a plugin source: logging.
func RegisterBuiltinProcessors(r *ProcessorRegistry) error {
	return r.Register("logging", func(_ map[string]any, inv *inventory.Inventory, observer observability.Observer) (Processor, error) {
		return NewLoggingProcessor(inv, observer), nil
	})
}
