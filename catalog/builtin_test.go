package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nornflow-io/nornflow/catalog"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := catalog.New()
	if err := r.Register("noop", func(rc *catalog.RunContext) (catalog.Result, error) {
		return catalog.Result{Host: rc.Host}, nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := r.Get("noop"); !ok {
		t.Fatal("expected noop to be registered")
	}
	if err := r.Register("noop", nil); err == nil {
		t.Fatal("expected ErrAlreadyExists on duplicate registration")
	}
}

func TestRegisterBuiltins(t *testing.T) {
	r := catalog.New()
	if err := catalog.RegisterBuiltins(r); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	for _, name := range []string{"set", "echo", "write_file"} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("expected builtin %q to be registered", name)
		}
	}
}

func TestTaskSet_WritesRuntime(t *testing.T) {
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("set")

	var got map[string]any = map[string]any{}
	rc := &catalog.RunContext{
		Host: "r1",
		Args: map[string]any{"t": 60},
		SetRuntime: func(k string, v any) {
			got[k] = v
		},
	}
	result, err := fn(rc)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if result.Failed {
		t.Fatal("set should not fail")
	}
	if got["t"] != 60 {
		t.Errorf("got %v, want runtime var t=60", got)
	}
}

func TestTaskWriteFile_DryRunDoesNotTouchDisk(t *testing.T) {
	// Spec S5: dry run with the parent absent reports a simulated write
	// (would_create_dirs=true, content_size_bytes=5), filesystem untouched.
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("write_file")

	filename := filepath.Join(t.TempDir(), "x", "y.txt")
	rc := &catalog.RunContext{
		Host:   "r1",
		Args:   map[string]any{"filename": filename, "content": "hello"},
		DryRun: true,
	}
	result, err := fn(rc)
	if err != nil {
		t.Fatalf("write_file dry-run: %v", err)
	}
	if !result.Changed {
		t.Error("expected Changed=true even in dry-run")
	}
	if !result.DryRun {
		t.Error("expected DryRun=true")
	}
	report, ok := result.Payload.(catalog.WriteFileReport)
	if !ok {
		t.Fatalf("expected a WriteFileReport payload, got %T", result.Payload)
	}
	if !report.WouldCreateDirs {
		t.Error("expected WouldCreateDirs=true, the parent directory is absent")
	}
	if report.ContentSizeBytes != 5 {
		t.Errorf("ContentSizeBytes = %d, want 5", report.ContentSizeBytes)
	}
	if _, err := os.Stat(filename); !os.IsNotExist(err) {
		t.Error("dry-run must not create the file")
	}
}

func TestTaskWriteFile_WritesAndAppends(t *testing.T) {
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("write_file")

	dir := t.TempDir()
	filename := filepath.Join(dir, "nested", "out.txt")

	// mkdir defaults to true (spec §6): no explicit mkdir arg here.
	_, err := fn(&catalog.RunContext{
		Host: "r1",
		Args: map[string]any{"filename": filename, "content": "one"},
	})
	if err != nil {
		t.Fatalf("write_file: %v", err)
	}
	data, err := os.ReadFile(filename)
	if err != nil || string(data) != "one" {
		t.Fatalf("got %q, %v, want %q", data, err, "one")
	}

	_, err = fn(&catalog.RunContext{
		Host: "r1",
		Args: map[string]any{"filename": filename, "content": "two", "append": true},
	})
	if err != nil {
		t.Fatalf("write_file append: %v", err)
	}
	data, err = os.ReadFile(filename)
	if err != nil || string(data) != "onetwo" {
		t.Fatalf("got %q, %v, want %q", data, err, "onetwo")
	}
}

func TestTaskWriteFile_MkdirFalseFailsOnMissingParent(t *testing.T) {
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("write_file")

	filename := filepath.Join(t.TempDir(), "nested", "out.txt")
	result, err := fn(&catalog.RunContext{
		Host: "r1",
		Args: map[string]any{"filename": filename, "content": "x", "mkdir": false},
	})
	if err == nil || !result.Failed {
		t.Fatal("expected a failure when mkdir=false and the parent is missing")
	}
	if !errors.Is(err, catalog.ErrParentMissing) {
		t.Errorf("expected ErrParentMissing, got %v", err)
	}
}

func TestTaskWriteFile_MissingFilenameFails(t *testing.T) {
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("write_file")

	result, err := fn(&catalog.RunContext{Host: "r1", Args: map[string]any{"content": "x"}})
	if err == nil || !result.Failed {
		t.Fatal("expected a failure when filename is missing")
	}
	if !errors.Is(err, catalog.ErrMissingArg) {
		t.Errorf("expected ErrMissingArg, got %v", err)
	}
}

func TestTaskWriteFile_MissingContentFails(t *testing.T) {
	r := catalog.New()
	catalog.RegisterBuiltins(r)
	fn, _ := r.Get("write_file")

	result, err := fn(&catalog.RunContext{Host: "r1", Args: map[string]any{"filename": filepath.Join(t.TempDir(), "out.txt")}})
	if err == nil || !result.Failed {
		t.Fatal("expected a failure when content is missing")
	}
	if !errors.Is(err, catalog.ErrMissingArg) {
		t.Errorf("expected ErrMissingArg, got %v", err)
	}
}
