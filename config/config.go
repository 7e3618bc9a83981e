// Package config holds the JSON/YAML-loadable configuration NornFlow's
// Orchestrator is built from, grounded on kernel/config.go's
// Config/DefaultConfig/Merge/LoadConfig shape and orchestrate/config's
// per-concern config structs (ParallelConfig's worker-sizing fields in
// particular).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunnerConfig controls the per-task host fan-out's worker pool and
// failure behavior (mirrors orchestrate/config.ParallelConfig).
type RunnerConfig struct {
	MaxWorkers int    `json:"max_workers,omitempty"`
	WorkerCap  int    `json:"worker_cap"`
	FailFast   bool   `json:"fail_fast"`
	Observer   string `json:"observer"`
}

// DefaultRunnerConfig mirrors orchestrate/config.DefaultParallelConfig's
// defaults, adapted to this domain's failure model: fail-fast defaults to
// false here because the workflow-level FailureStrategy (spec §4.7), not
// the per-task fan-out, is where NornFlow's stop_on_first_error lives.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{WorkerCap: 32, FailFast: false, Observer: "slog"}
}

func (c *RunnerConfig) Merge(source *RunnerConfig) {
	if source.MaxWorkers > 0 {
		c.MaxWorkers = source.MaxWorkers
	}
	if source.WorkerCap > 0 {
		c.WorkerCap = source.WorkerCap
	}
	if source.FailFast {
		c.FailFast = source.FailFast
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// EngineConfig holds initialization parameters for every NornFlow
// subsystem a workflow.Orchestrator assembles.
type EngineConfig struct {
	Runner            RunnerConfig `json:"runner"`
	DomainDefaultsDir string       `json:"domain_defaults_dir,omitempty"`
	FailureStrategy   string       `json:"failure_strategy,omitempty"` // "stop_on_first_error" | "continue_on_error"
}

// DefaultConfig returns an EngineConfig with sensible defaults for all
// subsystems.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Runner:          DefaultRunnerConfig(),
		FailureStrategy: "stop_on_first_error",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *EngineConfig) Merge(source *EngineConfig) {
	c.Runner.Merge(&source.Runner)
	if source.DomainDefaultsDir != "" {
		c.DomainDefaultsDir = source.DomainDefaultsDir
	}
	if source.FailureStrategy != "" {
		c.FailureStrategy = source.FailureStrategy
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and
// returns the resulting EngineConfig.
func LoadConfig(filename string) (*EngineConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded EngineConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
