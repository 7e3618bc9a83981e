// Package workflow implements the workflow orchestrator (spec §4.7,
// component C7): the top-level object that loads a Workflow definition,
// validates it eagerly, and runs its tasks against an inventory in
// order, enforcing a failure strategy across task boundaries.
//
// Grounded on kernel/kernel.go's New(cfg, opts...)/Run shape: a
// config-driven constructor that wires every subsystem, plus functional
// options for test overrides, feeding a single Run loop.
package workflow

import "github.com/nornflow-io/nornflow/inventory"

// HookConfig is one hook attached to a TaskEntry, as authored in YAML.
type HookConfig struct {
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args,omitempty"`
}

// ProcessorConfig is one processor a Workflow adds on top of the engine's
// default chain (spec §4.7: "Apply processors declared in workflow YAML
// on top of the engine-default chain, preserving order").
type ProcessorConfig struct {
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args,omitempty"`
}

// TaskEntry is one task invocation within a Workflow.
type TaskEntry struct {
	Name        string         `yaml:"name"`
	Args        map[string]any `yaml:"args,omitempty"`
	Hooks       []HookConfig   `yaml:"hooks,omitempty"`
	DryRun      bool           `yaml:"dry_run,omitempty"`
	BlueprintOf string         `yaml:"blueprint,omitempty"` // non-empty: this entry expands to another Workflow's tasks
}

// FailureStrategy controls whether a failed task aborts the rest of the
// workflow (spec §4.7).
type FailureStrategy string

const (
	StopOnFirstError FailureStrategy = "stop_on_first_error"
	ContinueOnError  FailureStrategy = "continue_on_error"
)

// ParseFailureStrategy validates s against the two known strategies,
// defaulting to StopOnFirstError for an empty string.
func ParseFailureStrategy(s string) (FailureStrategy, error) {
	switch FailureStrategy(s) {
	case "":
		return StopOnFirstError, nil
	case StopOnFirstError, ContinueOnError:
		return FailureStrategy(s), nil
	default:
		return "", &InvalidFailureStrategyError{Value: s}
	}
}

// InvalidFailureStrategyError reports an unrecognized failure_strategy
// value in a loaded Workflow.
type InvalidFailureStrategyError struct {
	Value string
}

func (e *InvalidFailureStrategyError) Error() string {
	return "workflow: invalid failure_strategy " + e.Value
}

// Workflow is a complete, loadable NornFlow workflow definition.
type Workflow struct {
	Name             string            `yaml:"name"`
	Tasks            []TaskEntry       `yaml:"tasks"`
	FailureStrategy  FailureStrategy   `yaml:"failure_strategy,omitempty"`
	Vars             map[string]any    `yaml:"vars,omitempty"`
	DryRun           bool              `yaml:"dry_run,omitempty"`
	InventoryFilters inventory.Filters `yaml:"inventory_filters,omitempty"`
	Processors       []ProcessorConfig `yaml:"processors,omitempty"`
}
