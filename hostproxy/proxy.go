// Package hostproxy builds the read-only "host" namespace templates see
// (spec §4.3, component C3).
//
// The source NornFlow mutates a thread-local current-host pointer on a
// shared proxy object. Design Notes §9 flags that as state worth removing:
// here the host view is an explicit, immutable value constructed fresh for
// every device context and passed through the template rendering context
// under the key "host" — there is nothing to race on and nothing to clear.
package hostproxy

import "github.com/nornflow-io/nornflow/inventory"

// Proxy is the value exposed to templates as host.*. It carries no
// identity beyond the data copied in at construction time.
type Proxy struct {
	Name     string
	Hostname string
	Platform string
	Groups   []string
	Data     map[string]any
}

// New builds the read-only host namespace for h. Groups and Data are
// shallow-copied so later mutation of the source Host cannot leak into an
// already-rendered template context.
func New(h inventory.Host) Proxy {
	groups := make([]string, len(h.Groups))
	copy(groups, h.Groups)

	data := make(map[string]any, len(h.Data))
	for k, v := range h.Data {
		data[k] = v
	}

	return Proxy{
		Name:     h.Name,
		Hostname: h.Hostname,
		Platform: h.Platform,
		Groups:   groups,
		Data:     data,
	}
}

// ToMap renders the proxy as the map[string]any shape the template engine
// consumes (text/template dot-chains into nested maps natively, and
// template.Service compiles with missingkey=error, so a missing key at
// any segment of a host.* chain fails the render).
func (p Proxy) ToMap() map[string]any {
	return map[string]any{
		"name":     p.Name,
		"hostname": p.Hostname,
		"platform": p.Platform,
		"groups":   groupsAsAny(p.Groups),
		"data":     p.Data,
	}
}

func groupsAsAny(groups []string) []any {
	out := make([]any, len(groups))
	for i, g := range groups {
		out[i] = g
	}
	return out
}
