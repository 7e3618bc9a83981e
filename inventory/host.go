// Package inventory models the fleet of network devices NornFlow schedules
// work against. NornFlow treats inventory as a closed, in-memory structure;
// populating it from YAML/NetBox/whatever source is the external loader's
// job (see spec §1 Out of scope).
package inventory

import "sync"

// Host is one addressable device in the fleet.
type Host struct {
	Name     string
	Hostname string
	Platform string
	Groups   []string
	Data     map[string]any
}

// Group is a named collection of hosts, referenced by inventory filters.
type Group struct {
	Name  string
	Hosts []string
}

// Inventory is the closed set of hosts and groups a workflow run filters
// down from. The host/group data is never mutated after construction;
// Apply returns a new, narrowed host slice rather than altering the
// Inventory. The one exception is the suppressed-task set below: a
// process-wide, concurrency-safe table the shush hook maintains across a
// task's lifetime (spec §4.5/§5).
type Inventory struct {
	hosts  []Host
	byName map[string]Host
	groups map[string][]string

	mu         sync.RWMutex
	suppressed map[string]bool
}

// New builds an Inventory from hosts and named groups. Group membership not
// already reflected in a Host's Groups field is added to it, so host.groups
// always reflects full membership regardless of which side declared it.
func New(hosts []Host, groups []Group) *Inventory {
	byName := make(map[string]Host, len(hosts))
	groupIndex := make(map[string][]string, len(groups))

	hostGroups := make(map[string]map[string]bool, len(hosts))
	for _, h := range hosts {
		set := make(map[string]bool, len(h.Groups))
		for _, g := range h.Groups {
			set[g] = true
		}
		hostGroups[h.Name] = set
	}

	for _, g := range groups {
		groupIndex[g.Name] = append([]string(nil), g.Hosts...)
		for _, hostName := range g.Hosts {
			if hostGroups[hostName] == nil {
				hostGroups[hostName] = make(map[string]bool)
			}
			hostGroups[hostName][g.Name] = true
		}
	}

	for _, h := range hosts {
		merged := make([]string, 0, len(hostGroups[h.Name]))
		for _, g := range h.Groups {
			merged = append(merged, g)
		}
		for _, grp := range groups {
			g := grp.Name
			if !hostGroups[h.Name][g] {
				continue
			}
			found := false
			for _, existing := range merged {
				if existing == g {
					found = true
					break
				}
			}
			if !found {
				merged = append(merged, g)
			}
		}
		h.Groups = merged
		byName[h.Name] = h
	}

	ordered := make([]Host, 0, len(hosts))
	for _, h := range hosts {
		ordered = append(ordered, byName[h.Name])
	}

	return &Inventory{hosts: ordered, byName: byName, groups: groupIndex, suppressed: make(map[string]bool)}
}

// SuppressTask marks task in the shared suppressed-task set the shush
// hook maintains: logging processors consult TaskSuppressed before
// deciding whether to print a failure for that task. It has no effect on
// Result.Failed or AggregatedResult.Failed() — suppression here is a
// logging concern only (spec §4.5).
func (inv *Inventory) SuppressTask(task string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.suppressed[task] = true
}

// UnsuppressTask clears task from the suppressed set. Called when the
// task completes: shush's scope is run_once_per_task, not the whole run.
func (inv *Inventory) UnsuppressTask(task string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	delete(inv.suppressed, task)
}

// TaskSuppressed reports whether task is currently marked suppressed.
// Reads may race with a concurrent SuppressTask/UnsuppressTask call, but
// both see monotonic add/remove at task boundaries only (spec §5).
func (inv *Inventory) TaskSuppressed(task string) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.suppressed[task]
}

// Hosts returns all hosts in declaration order.
func (inv *Inventory) Hosts() []Host {
	out := make([]Host, len(inv.hosts))
	copy(out, inv.hosts)
	return out
}

// Get returns the named host.
func (inv *Inventory) Get(name string) (Host, bool) {
	h, ok := inv.byName[name]
	return h, ok
}

// Filters narrows a workflow or task's candidate host set (spec §6
// inventory_filters). "hosts" and "groups" are well-known keys; any other
// key is matched against a host's Data map with an exact equality check,
// matching the free-form k/v clause of the schema.
type Filters map[string]any

// Apply returns the ordered subset of hosts matching every filter key.
// An empty/nil Filters matches everything.
func (inv *Inventory) Apply(f Filters) []Host {
	if len(f) == 0 {
		return inv.Hosts()
	}

	var wantHosts map[string]bool
	if raw, ok := f["hosts"]; ok {
		wantHosts = toStringSet(raw)
	}

	var wantGroups map[string]bool
	if raw, ok := f["groups"]; ok {
		wantGroups = toStringSet(raw)
	}

	extra := make(map[string]any, len(f))
	for k, v := range f {
		if k == "hosts" || k == "groups" {
			continue
		}
		extra[k] = v
	}

	out := make([]Host, 0, len(inv.hosts))
	for _, h := range inv.hosts {
		if wantHosts != nil && !wantHosts[h.Name] {
			continue
		}
		if wantGroups != nil && !hasAny(h.Groups, wantGroups) {
			continue
		}
		if !matchesData(h.Data, extra) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func toStringSet(raw any) map[string]bool {
	set := make(map[string]bool)
	switch v := raw.(type) {
	case []string:
		for _, s := range v {
			set[s] = true
		}
	case []any:
		for _, s := range v {
			if str, ok := s.(string); ok {
				set[str] = true
			}
		}
	case string:
		set[v] = true
	}
	return set
}

func hasAny(groups []string, want map[string]bool) bool {
	for _, g := range groups {
		if want[g] {
			return true
		}
	}
	return false
}

func matchesData(data map[string]any, want map[string]any) bool {
	for k, v := range want {
		if data == nil {
			return false
		}
		got, ok := data[k]
		if !ok || !equalValue(got, v) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	return a == b
}
