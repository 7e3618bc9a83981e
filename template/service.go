// Package template implements the NornFlow template service (spec §4.1,
// component C1): a cached, thread-safe expression evaluator consumed by
// the variable store and task argument resolution.
//
// The source NornFlow centers on a Jinja2 Environment held by a
// process-wide singleton. Design Notes §9 calls that out for replacement:
// Service is an explicit handle constructed by the caller (dependency
// injection) wrapping a concurrency-safe LRU cache, so tests can each get
// their own instance with no hidden global state.
//
// Jinja2's {{ }}/{% %}/{# #} syntax has no Go stdlib equivalent, so
// Service renders through text/template after preprocess translates the
// mapped Jinja subset into Go template actions (see preprocess.go for
// exactly what is and is not translated).
package template

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// compileCacheSize matches the source's @lru_cache(maxsize=256) on
// Jinja2Service.compile_template.
const compileCacheSize = 256

// CompiledTemplate is an opaque, pre-parsed template ready for repeated
// Execute calls against different contexts.
type CompiledTemplate struct {
	tmpl   *template.Template
	source string
}

// Service compiles, caches, and renders templated strings. All methods are
// safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *CompiledTemplate]
	funcMap template.FuncMap
	funcSet map[string]bool
}

// New creates a Service with its own compile cache and function map. Each
// instance is fully independent; there is no process-wide shared state.
func New() *Service {
	funcMap := sprig.TxtFuncMap()

	funcSet := make(map[string]bool, len(funcMap))
	for name := range funcMap {
		funcSet[name] = true
	}

	cache, err := lru.New[string, *CompiledTemplate](compileCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// compileCacheSize never is.
		panic(fmt.Sprintf("template: failed to construct compile cache: %v", err))
	}

	return &Service{
		cache:   cache,
		funcMap: funcMap,
		funcSet: funcSet,
	}
}

// Compile parses and caches s, keyed by its exact source text. A cache hit
// returns the same *CompiledTemplate instance already built. Syntax faults
// fail with a *ValidationError.
func (s *Service) Compile(src string) (*CompiledTemplate, error) {
	s.mu.Lock()
	if hit, ok := s.cache.Get(src); ok {
		s.mu.Unlock()
		return hit, nil
	}
	s.mu.Unlock()

	translated := preprocess(src, s.funcSet)

	tmpl, err := template.New("nornflow").
		Option("missingkey=error").
		Funcs(s.funcMap).
		Parse(translated)
	if err != nil {
		return nil, &ValidationError{Template: src, Err: err}
	}

	compiled := &CompiledTemplate{tmpl: tmpl, source: src}

	s.mu.Lock()
	s.cache.Add(src, compiled)
	s.mu.Unlock()

	return compiled, nil
}

// Render renders s against ctx. If s carries no template marker it is
// returned unchanged — templating is never implicit on a non-template
// string. Undefined names and other evaluation faults fail with
// *EvalError (strict undefined, no silent empty strings).
func (s *Service) Render(src string, ctx map[string]any) (string, error) {
	return s.RenderContext(src, ctx, "")
}

// RenderContext is Render with an error-message label describing where
// the template came from (e.g. "task echo, arg msg"), matching the
// source's resolve_string(..., error_context=...).
func (s *Service) RenderContext(src string, ctx map[string]any, errorContext string) (string, error) {
	if !IsTemplate(src) {
		return src, nil
	}

	compiled, err := s.Compile(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := compiled.tmpl.Execute(&buf, ctx); err != nil {
		return "", &EvalError{Template: src, Context: errorContext, Err: err}
	}

	return buf.String(), nil
}
