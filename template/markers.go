package template

import "strings"

// markers are the recognized template delimiters, including the
// whitespace-control variants (spec §3: "markers: {{, {%, {#, with
// whitespace-control variants").
var markers = []string{"{{", "{%", "{#"}

// IsTemplate reports whether s contains any template marker. A plain
// string with no markers renders as itself, untouched (spec §4.1).
func IsTemplate(s string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
