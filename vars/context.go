package vars

import (
	"github.com/nornflow-io/nornflow/hostproxy"
	"github.com/nornflow-io/nornflow/inventory"
)

// DeviceContext builds the full render context for host: every variable
// layer merged at resolution-time precedence, plus the read-only "host"
// namespace (spec §4.3, component C3). The host value is a fresh
// hostproxy.Proxy snapshot taken from h, never a live reference into the
// inventory, so concurrent renders for other hosts can't observe or
// mutate it.
func (s *Store) DeviceContext(h inventory.Host) map[string]any {
	ctx := s.Merged(h.Name)
	ctx["host"] = hostproxy.New(h).ToMap()
	return ctx
}
