package vars

import "errors"

// ErrDomainDefaultsLoad is wrapped with the offending file path when a
// domain-defaults YAML file under the configured directory fails to parse.
var ErrDomainDefaultsLoad = errors.New("vars: failed to load domain defaults")
