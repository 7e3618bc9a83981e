package template

import "strings"

// truthyStrings is the recognized truthy set for ToBool string comparison
// (spec §4.1), case-insensitive. Anything else is false.
var truthyStrings = map[string]bool{
	"true":    true,
	"yes":     true,
	"1":       true,
	"on":      true,
	"y":       true,
	"t":       true,
	"enabled": true,
}

// ToBool implements the spec's truthiness rules: bools pass through,
// strings compare case-insensitively against the truthy set, nil is
// false, int/int64/float64 are false when zero, and []any/map[string]any
// are false when empty. Any other type is true, zero value or not.
func ToBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return truthyStrings[strings.ToLower(x)]
	case nil:
		return false
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) != 0
	case map[string]any:
		return len(x) != 0
	default:
		return true
	}
}

// ResolveToBool renders v if it is a template string, then applies ToBool;
// for a plain string it applies ToBool directly; otherwise it defers to
// ToBool. ctx must already be the flat map[string]any device context.
func (s *Service) ResolveToBool(v any, ctx map[string]any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}

	str, ok := v.(string)
	if !ok {
		return ToBool(v), nil
	}

	if !IsTemplate(str) {
		return ToBool(str), nil
	}

	rendered, err := s.Render(str, ctx)
	if err != nil {
		return false, err
	}
	return ToBool(rendered), nil
}
