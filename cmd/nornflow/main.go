// Command nornflow runs a small built-in demo workflow against a built-in
// inventory, the way cmd/kernel/main.go wires a kernel.Config into a
// kernel.Run call. Loading workflows and inventories from YAML files is
// out of scope (spec Non-goals) — this binary exists to exercise the
// wiring, not to be a full CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nornflow-io/nornflow/config"
	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/workflow"
)

func main() {
	var (
		dryRun  = flag.Bool("dry-run", false, "run write_file in simulated mode")
		verbose = flag.Bool("verbose", false, "enable debug-level logging to stderr")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	inv := inventory.New(
		[]inventory.Host{
			{
				Name: "r1", Hostname: "10.0.0.1", Platform: "ios", Groups: []string{"routers", "core"},
				Data: map[string]any{"contact": "noc@example.com"},
			},
			{
				Name: "r2", Hostname: "10.0.0.2", Platform: "ios", Groups: []string{"routers", "edge"},
				Data: map[string]any{"contact": "noc@example.com"},
			},
		},
		nil,
	)

	cfg := config.DefaultConfig()
	orch, err := workflow.New(cfg, inv)
	if err != nil {
		log.Fatalf("failed to create orchestrator: %v", err)
	}

	w := &workflow.Workflow{
		Name:            "demo",
		FailureStrategy: workflow.ContinueOnError,
		Vars:            map[string]any{"ntp_server": "10.0.0.1"},
		Processors:      []workflow.ProcessorConfig{{Name: "logging"}},
		Tasks: []workflow.TaskEntry{
			{
				Name: "echo",
				Args: map[string]any{"msg": "configuring {{ host.name }} ({{ host.platform }}) via {{ ntp_server }}"},
			},
			{
				Name:  "set",
				Args:  map[string]any{"configured": true},
				Hooks: []workflow.HookConfig{{Name: "set_to", Args: map[string]any{"var": "last_set_output"}}},
			},
			{
				Name:   "write_file",
				DryRun: *dryRun,
				Args: map[string]any{
					"filename": fmt.Sprintf("%s/nornflow-demo-{{ host.name }}.txt", os.TempDir()),
					"content":  "contact: {{ host.data.contact }}\n",
				},
				Hooks: []workflow.HookConfig{{Name: "shush"}},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := orch.Run(ctx, w)
	if err != nil {
		log.Fatalf("workflow run failed: %v", err)
	}

	fmt.Printf("run %s: workflow %q finished (aborted=%v)\n", summary.RunID, summary.Workflow, summary.Aborted)
	for _, tr := range summary.TaskResult {
		fmt.Printf("  task %s:\n", tr.Task)
		for _, r := range tr.Results {
			status := "ok"
			if r.Failed {
				status = "failed"
			}
			fmt.Printf("    %-4s %-8s %s\n", r.Host, status, r.Output)
		}
	}

	os.Exit(summary.ExitCode())
}
