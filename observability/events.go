package observability

// Event types emitted across the NornFlow execution kernel. Consumers match
// on these to drive logging, tracing, or the CLI's overview/summary output;
// NornFlow itself only ever calls Observer.OnEvent, never formats text.
const (
	// Workflow orchestrator (C7).
	EventWorkflowStart   EventType = "workflow.start"
	EventWorkflowSummary EventType = "workflow.summary"

	// Task runner (C6) and processor chain (C4).
	EventTaskStarted            EventType = "task.started"
	EventTaskInstanceStarted    EventType = "task.instance.started"
	EventTaskInstanceCompleted  EventType = "task.instance.completed"
	EventTaskCompleted          EventType = "task.completed"
	EventTaskSkipped            EventType = "task.skipped"
	EventHostsFilteredByPreHook EventType = "task.hosts_filtered"

	// Hook registry (C5).
	EventHookSuppressed     EventType = "hook.shush.suppressed"
	EventHookSuppressUnsupp EventType = "hook.shush.unsupported"

	// Built-in logging processor (supports_shush_hook consumer).
	EventTaskInstanceFailedLogged     EventType = "processor.logging.failed"
	EventTaskInstanceFailedSuppressed EventType = "processor.logging.suppressed"

	// Template service (C1).
	EventTemplateCompileMiss EventType = "template.compile.miss"
	EventTemplateCompileHit  EventType = "template.compile.hit"

	// Blueprint expansion (load-time, §9 cyclic references).
	EventBlueprintExpanded EventType = "blueprint.expanded"
	EventBlueprintCycle    EventType = "blueprint.cycle_detected"
)
