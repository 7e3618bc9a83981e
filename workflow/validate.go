package workflow

import (
	"fmt"

	"github.com/nornflow-io/nornflow/catalog"
	"github.com/nornflow-io/nornflow/hooks"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/observability"
	"github.com/nornflow-io/nornflow/runner"
)

// Validate checks w against the task, hook, and processor registries
// eagerly, at load time, rather than letting an unknown name surface as
// a runtime failure mid-fan-out (spec §4.7: eager load-time validation).
func (w *Workflow) Validate(tasks *catalog.Registry, hookReg *hooks.Registry, procReg *runner.ProcessorRegistry) error {
	if len(w.Tasks) == 0 {
		return ErrNoTasks
	}
	if _, err := ParseFailureStrategy(string(w.FailureStrategy)); err != nil {
		return err
	}

	for _, t := range w.Tasks {
		if t.BlueprintOf != "" {
			continue
		}
		if _, ok := tasks.Get(t.Name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTask, t.Name)
		}
		for _, h := range t.Hooks {
			if _, err := hookReg.Build(h.Name, h.Args); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUnknownHook, h.Name, err)
			}
		}
	}

	for _, pc := range w.Processors {
		if _, err := procReg.Build(pc.Name, pc.Args, &inventory.Inventory{}, observability.NoOpObserver{}); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnknownProcessor, pc.Name, err)
		}
	}
	return nil
}
