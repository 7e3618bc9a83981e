package vars_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nornflow-io/nornflow/inventory"
	"github.com/nornflow-io/nornflow/vars"
)

func TestStore_Precedence(t *testing.T) {
	// Spec §8 property 1: Runtime > CLI > Environment > Workflow > Domain
	// Defaults.
	s := vars.New()
	s.SetLayer(vars.LayerDomainDefaults, map[string]vars.Value{"t": "domain"})
	s.SetLayer(vars.LayerWorkflow, map[string]vars.Value{"t": "workflow"})
	s.SetLayer(vars.LayerEnvironment, map[string]vars.Value{"t": "environment"})
	s.SetLayer(vars.LayerCLI, map[string]vars.Value{"t": "cli"})

	if v, _ := s.Get("r1", "t"); v != "cli" {
		t.Fatalf("got %v, want cli (CLI beats environment/workflow/domain)", v)
	}

	s.SetRuntime("r1", "t", "runtime")
	if v, _ := s.Get("r1", "t"); v != "runtime" {
		t.Fatalf("got %v, want runtime (runtime beats everything)", v)
	}

	// A key set only at a lower layer still resolves.
	s.SetLayer(vars.LayerWorkflow, map[string]vars.Value{"t": "workflow", "only_workflow": 1})
	if v, ok := s.Get("r1", "only_workflow"); !ok || v != 1 {
		t.Fatalf("got %v, %v, want 1, true", v, ok)
	}
}

func TestStore_HostIsolation(t *testing.T) {
	// Spec §8 property 2: runtime writes for one host never leak into
	// another host's resolution.
	s := vars.New()
	s.SetRuntime("r1", "t", 60)
	s.SetRuntime("r2", "t", 120)

	if v, _ := s.Get("r1", "t"); v != 60 {
		t.Fatalf("r1: got %v, want 60", v)
	}
	if v, _ := s.Get("r2", "t"); v != 120 {
		t.Fatalf("r2: got %v, want 120", v)
	}
	if _, ok := s.Get("r3", "t"); ok {
		t.Fatal("r3 should have no runtime override")
	}
}

func TestStore_DeepMergePreservesUnrelatedKeys(t *testing.T) {
	s := vars.New()
	s.SetLayer(vars.LayerDomainDefaults, map[string]vars.Value{
		"snmp": map[string]any{"community": "public", "port": 161},
	})
	s.SetLayer(vars.LayerWorkflow, map[string]vars.Value{
		"snmp": map[string]any{"community": "private"},
	})

	merged := s.Merged("r1")
	snmp := merged["snmp"].(map[string]any)
	if snmp["community"] != "private" {
		t.Errorf("community = %v, want private (workflow overrides domain)", snmp["community"])
	}
	if snmp["port"] != 161 {
		t.Errorf("port = %v, want 161 (untouched key survives the merge)", snmp["port"])
	}
}

func TestStore_ListsReplaceNotConcatenate(t *testing.T) {
	s := vars.New()
	s.SetLayer(vars.LayerDomainDefaults, map[string]vars.Value{"ntp": []any{"10.0.0.1"}})
	s.SetLayer(vars.LayerWorkflow, map[string]vars.Value{"ntp": []any{"10.0.0.2"}})

	merged := s.Merged("r1")
	ntp := merged["ntp"].([]any)
	if len(ntp) != 1 || ntp[0] != "10.0.0.2" {
		t.Errorf("ntp = %v, want [10.0.0.2] (replaced, not concatenated)", ntp)
	}
}

func TestStore_DeviceContext(t *testing.T) {
	// Spec S1/S2: the "host" namespace sits alongside resolved variables
	// in the same render context.
	s := vars.New()
	s.SetLayer(vars.LayerWorkflow, map[string]vars.Value{"t": 60})

	h := inventory.Host{Name: "r1", Hostname: "192.168.1.1", Platform: "ios", Groups: []string{"core"}}
	ctx := s.DeviceContext(h)

	if ctx["t"] != 60 {
		t.Errorf("t = %v, want 60", ctx["t"])
	}
	hostMap, ok := ctx["host"].(map[string]any)
	if !ok {
		t.Fatalf("host = %T, want map[string]any", ctx["host"])
	}
	if hostMap["name"] != "r1" {
		t.Errorf("host.name = %v, want r1", hostMap["name"])
	}
}

func TestLoadDomainDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("ntp_server: 10.0.0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("snmp_port: 161\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := vars.New()
	if err := s.LoadDomainDefaults(dir); err != nil {
		t.Fatalf("LoadDomainDefaults: %v", err)
	}

	if v, _ := s.Get("r1", "ntp_server"); v != "10.0.0.1" {
		t.Errorf("ntp_server = %v, want 10.0.0.1", v)
	}
	if v, _ := s.Get("r1", "snmp_port"); v != 161 {
		t.Errorf("snmp_port = %v, want 161", v)
	}
}

func TestLoadDomainDefaults_MissingDirIsNotError(t *testing.T) {
	s := vars.New()
	if err := s.LoadDomainDefaults(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("LoadDomainDefaults on missing dir: %v", err)
	}
}
