package workflow

import "github.com/nornflow-io/nornflow/catalog"

// Summary reports the outcome of one Orchestrator.Run call.
type Summary struct {
	RunID      string
	Workflow   string
	TaskResult []catalog.AggregatedResult
	Aborted    bool // true if FailureStrategy or a cancelled context stopped the run early
}

// ExitCode maps Summary to a process exit code: 0 if every task
// succeeded, 1 if any task failed (whether or not the run was aborted
// early).
func (s *Summary) ExitCode() int {
	for _, tr := range s.TaskResult {
		if tr.Failed() {
			return 1
		}
	}
	return 0
}
