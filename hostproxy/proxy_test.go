package hostproxy_test

import (
	"testing"

	"github.com/nornflow-io/nornflow/hostproxy"
	"github.com/nornflow-io/nornflow/inventory"
)

func TestNew_CopiesGroupsAndData(t *testing.T) {
	h := inventory.Host{
		Name:     "r1",
		Hostname: "192.168.1.1",
		Platform: "ios",
		Groups:   []string{"routers", "core"},
		Data:     map[string]any{"contact": "admin@example.com"},
	}

	p := hostproxy.New(h)

	h.Groups[0] = "mutated"
	h.Data["contact"] = "mutated"

	if p.Groups[0] != "routers" {
		t.Errorf("Proxy.Groups mutated via source host: %v", p.Groups)
	}
	if p.Data["contact"] != "admin@example.com" {
		t.Errorf("Proxy.Data mutated via source host: %v", p.Data)
	}
}

func TestToMap(t *testing.T) {
	p := hostproxy.New(inventory.Host{
		Name:     "test_device",
		Hostname: "192.168.1.1",
		Platform: "ios",
		Groups:   []string{"routers", "core"},
		Data:     map[string]any{"contact": "admin@example.com"},
	})

	m := p.ToMap()
	if m["name"] != "test_device" || m["hostname"] != "192.168.1.1" || m["platform"] != "ios" {
		t.Errorf("ToMap basic attributes wrong: %+v", m)
	}

	groups, ok := m["groups"].([]any)
	if !ok || len(groups) != 2 || groups[0] != "routers" || groups[1] != "core" {
		t.Errorf("ToMap groups wrong: %+v", m["groups"])
	}
}
