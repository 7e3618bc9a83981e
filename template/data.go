package template

import "fmt"

// RenderData recursively walks x, rendering every template string leaf
// against ctx. map[string]any values are walked by value with keys
// preserved; []any sequences are walked element-wise into a new []any;
// scalars other than strings pass through untouched (spec §4.1:
// render_data). Other map and slice types (e.g. []string) are not walked:
// they pass through untouched like scalars, templates inside them unrendered.
func (s *Service) RenderData(x any, ctx map[string]any) (any, error) {
	return s.renderDataContext(x, ctx, "")
}

func (s *Service) renderDataContext(x any, ctx map[string]any, errorContext string) (any, error) {
	switch v := x.(type) {
	case string:
		return s.RenderContext(v, ctx, errorContext)

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			rendered, err := s.renderDataContext(val, ctx, errorContext)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			rendered, err := s.renderDataContext(val, ctx, errorContext)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = rendered
		}
		return out, nil

	default:
		return x, nil
	}
}
