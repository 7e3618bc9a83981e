package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// RegisterBuiltins installs the task implementations every NornFlow
// workflow can rely on without declaring a plugin source: set, echo, and
// write_file.
func RegisterBuiltins(r *Registry) error {
	builtins := map[string]TaskFunc{
		"set":        taskSet,
		"echo":       taskEcho,
		"write_file": taskWriteFile,
	}
	for name, fn := range builtins {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// taskSet writes each key in args to this host's runtime variable layer.
// It never fails and never reports changed: it mutates variable state,
// not device state.
func taskSet(rc *RunContext) (Result, error) {
	for k, v := range rc.Args {
		if rc.SetRuntime != nil {
			rc.SetRuntime(k, v)
		}
	}
	return Result{Host: rc.Host, Task: "set", Output: fmt.Sprintf("set %d variable(s)", len(rc.Args))}, nil
}

// taskEcho renders its "msg" argument (already resolved by the processor
// chain before reaching here) straight into Output. Used in examples and
// as a no-op placeholder in tests.
func taskEcho(rc *RunContext) (Result, error) {
	msg, _ := rc.Args["msg"].(string)
	return Result{Host: rc.Host, Task: "echo", Output: msg}, nil
}

// WriteFileReport is write_file's typed payload (spec §6/S5), attached to
// Result.Payload: what the task did, or would have done under dry_run.
type WriteFileReport struct {
	Operation        string // "write" or "append"
	WouldCreateDirs  bool
	ContentSizeBytes int
}

// taskWriteFile writes args["content"] to args["filename"]. append
// appends instead of truncating; mkdir (default true) creates the parent
// directory first — set it false to fail instead with ErrParentMissing
// when the parent is absent. Grounded on memory/filestore.go's Save:
// write to a temp file in the same directory, then atomically rename
// over the destination, so a crash mid-write never leaves a half-written
// file in place. append mode skips the rename strategy since appends are
// not atomically replaceable the same way.
//
// DryRun reports what would happen without touching the filesystem (spec
// S5): Payload carries the structured report, Changed is always true
// (write_file is assumed to always change state when not skipped).
func taskWriteFile(rc *RunContext) (Result, error) {
	filename, _ := rc.Args["filename"].(string)
	if filename == "" {
		return Result{Host: rc.Host, Task: "write_file", Failed: true},
			fmt.Errorf("write_file: %w: %s", ErrMissingArg, "filename")
	}
	rawContent, hasContent := rc.Args["content"]
	if !hasContent {
		return Result{Host: rc.Host, Task: "write_file", Failed: true},
			fmt.Errorf("write_file: %w: %s", ErrMissingArg, "content")
	}
	content, _ := rawContent.(string)

	append_, _ := rc.Args["append"].(bool)
	mkdir := true
	if v, ok := rc.Args["mkdir"]; ok {
		mkdir, _ = v.(bool)
	}

	dir := filepath.Dir(filename)
	_, statErr := os.Stat(dir)
	dirMissing := os.IsNotExist(statErr)

	operation := "write"
	if append_ {
		operation = "append"
	}

	if rc.DryRun {
		return Result{
			Host:    rc.Host,
			Task:    "write_file",
			Output:  fmt.Sprintf("[dry-run] would %s %d byte(s) to %s", operation, len(content), filename),
			Changed: true,
			DryRun:  true,
			Payload: WriteFileReport{
				Operation:        operation,
				WouldCreateDirs:  mkdir && dirMissing,
				ContentSizeBytes: len(content),
			},
		}, nil
	}

	if dirMissing {
		if !mkdir {
			return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w: %s", ErrParentMissing, dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: mkdir: %w", err)
		}
	}

	if append_ {
		f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
		}
		defer f.Close()
		if _, err := f.WriteString(content); err != nil {
			return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
		}
		return Result{
			Host: rc.Host, Task: "write_file",
			Output:  fmt.Sprintf("appended %d byte(s) to %s", len(content), filename),
			Changed: true,
			Payload: WriteFileReport{Operation: operation, ContentSizeBytes: len(content)},
		}, nil
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return Result{Host: rc.Host, Task: "write_file", Failed: true}, fmt.Errorf("write_file: %w", err)
	}

	return Result{
		Host: rc.Host, Task: "write_file",
		Output:  fmt.Sprintf("wrote %d byte(s) to %s", len(content), filename),
		Changed: true,
		Payload: WriteFileReport{Operation: operation, ContentSizeBytes: len(content)},
	}, nil
}
