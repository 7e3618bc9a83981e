// Package vars implements the NornFlow variable store (spec §4.2,
// component C2): a layered, resolution-time precedence system that
// produces the per-host device context the template service renders
// against.
//
// The source keeps precedence as an implicit chain of dict merges
// performed fresh on every lookup. Design Notes §9's redesign carries
// over directly here: Store holds each layer immutably once installed and
// computes the merged view on demand, mirroring the immutable-state
// pattern orchestrate/state.State uses for its own Data map (clone, don't
// mutate in place).
package vars

import (
	"maps"
	"sync"
)

// Value is anything a variable can hold: a scalar, a template string
// awaiting rendering, or a nested map/slice.
type Value = any

// Layer identifies one precedence tier. Lower values are lower precedence;
// Merged walks layers from lowest to highest, letting a later layer's
// keys overwrite an earlier one's.
type Layer int

const (
	LayerDomainDefaults Layer = iota
	LayerWorkflow
	LayerEnvironment
	LayerCLI
	LayerRuntime
)

// layerOrder is LayerDomainDefaults..LayerCLI, lowest precedence first.
// LayerRuntime is excluded: it is host-partitioned and merged separately
// because, unlike the other four, it carries no single shared map.
var layerOrder = []Layer{LayerDomainDefaults, LayerWorkflow, LayerEnvironment, LayerCLI}

// Store holds the four workflow-scoped layers plus a per-host runtime
// partition. The four shared layers are set once at workflow load and
// read-only thereafter; only the runtime layer mutates during a run, so
// it alone needs a mutex.
type Store struct {
	shared map[Layer]map[string]Value

	mu      sync.RWMutex
	runtime map[string]map[string]Value // host name -> key -> value
}

// New returns an empty Store. Shared layers are populated with SetLayer;
// call it once per layer before the workflow begins executing tasks.
func New() *Store {
	return &Store{
		shared:  make(map[Layer]map[string]Value),
		runtime: make(map[string]map[string]Value),
	}
}

// SetLayer installs data as the full content of layer, replacing whatever
// was there. Intended for LayerDomainDefaults, LayerWorkflow,
// LayerEnvironment, and LayerCLI at load time; calling it with
// LayerRuntime panics since runtime is host-partitioned (use SetRuntime).
func (s *Store) SetLayer(layer Layer, data map[string]Value) {
	if layer == LayerRuntime {
		panic("vars: SetLayer cannot set LayerRuntime, use SetRuntime")
	}
	s.shared[layer] = maps.Clone(data)
}

// SetRuntime records a host-scoped runtime override, e.g. what a set_to
// hook or the built-in set task writes back during task execution. Safe for
// concurrent use across hosts; a single host's writes are serialized.
func (s *Store) SetRuntime(host, key string, value Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime[host] == nil {
		s.runtime[host] = make(map[string]Value)
	}
	s.runtime[host][key] = value
}

// Get resolves key for host across every layer at the host's current
// precedence (Runtime > CLI > Environment > Workflow > Domain Defaults)
// and reports whether any layer defined it.
func (s *Store) Get(host, key string) (Value, bool) {
	s.mu.RLock()
	if hostVars, ok := s.runtime[host]; ok {
		if v, ok := hostVars[key]; ok {
			s.mu.RUnlock()
			return v, true
		}
	}
	s.mu.RUnlock()

	for i := len(layerOrder) - 1; i >= 0; i-- {
		if layer, ok := s.shared[layerOrder[i]]; ok {
			if v, ok := layer[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Merged flattens every layer applicable to host into one map at
// resolution-time precedence: later writes in the loop win, so the loop
// order here IS the precedence order (spec §4.2 testable property 1).
func (s *Store) Merged(host string) map[string]Value {
	out := make(map[string]Value)

	for _, layer := range layerOrder {
		if data, ok := s.shared[layer]; ok {
			deepMerge(out, data)
		}
	}

	s.mu.RLock()
	if hostVars, ok := s.runtime[host]; ok {
		deepMerge(out, hostVars)
	}
	s.mu.RUnlock()

	return out
}

// deepMerge writes every key of src into dst, recursing into nested
// map[string]any values so a partial override only replaces the keys it
// names. Non-map values, including slices, are replaced wholesale — lists
// are never concatenated across layers (spec §4.2 resolution, Open
// Question: list merge strategy).
func deepMerge(dst, src map[string]Value) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				merged := maps.Clone(dstMap)
				deepMerge(merged, srcMap)
				dst[k] = merged
				continue
			}
		}
		dst[k] = v
	}
}
