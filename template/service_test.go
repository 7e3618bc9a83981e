package template_test

import (
	"errors"
	"testing"

	"github.com/nornflow-io/nornflow/template"
)

func TestIsTemplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain string", "hello world", false},
		{"expression marker", "hi {{ host.name }}", true},
		{"statement marker", "{% if x %}y{% endif %}", true},
		{"comment marker", "{# a note #}", true},
		{"trim variant", "{{- host.name -}}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := template.IsTemplate(tt.in); got != tt.want {
				t.Errorf("IsTemplate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToBool_TruthySet(t *testing.T) {
	// Spec §8 property 5.
	truthy := []string{"TRUE", "yes", "on", "1", "t", "Y", "enabled"}
	for _, s := range truthy {
		if !template.ToBool(s) {
			t.Errorf("ToBool(%q) = false, want true", s)
		}
	}

	falsy := []string{"maybe", "0", "no", "false", ""}
	for _, s := range falsy {
		if template.ToBool(s) {
			t.Errorf("ToBool(%q) = true, want false", s)
		}
	}

	if !template.ToBool(true) || template.ToBool(false) {
		t.Error("ToBool bool passthrough broken")
	}
}

func TestRender_Idempotence(t *testing.T) {
	// Spec §8 property 3.
	svc := template.New()
	const s = "no markers here"
	got, err := svc.Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != s {
		t.Errorf("Render(%q) = %q, want unchanged", s, got)
	}
}

func TestRenderData_RoundTrip(t *testing.T) {
	// Spec §8 property 4.
	svc := template.New()
	x := map[string]any{
		"a": "plain",
		"b": []any{"x", "y", 3},
		"c": map[string]any{"nested": true},
	}
	got, err := svc.RenderData(x, nil)
	if err != nil {
		t.Fatalf("RenderData: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["a"] != "plain" || m["c"].(map[string]any)["nested"] != true {
		t.Errorf("RenderData round-trip mismatch: %+v", got)
	}
}

func TestRender_StrictUndefined(t *testing.T) {
	// Spec §8 property 6.
	svc := template.New()
	_, err := svc.Render("{{ missing }}", map[string]any{})
	if err == nil {
		t.Fatal("expected error for undefined name, got nil")
	}
	var evalErr *template.EvalError
	if !errors.As(err, &evalErr) {
		t.Errorf("expected *EvalError, got %T: %v", err, err)
	}
}

func TestRender_HostNamespace(t *testing.T) {
	// Spec S1 and original_source test_host_namespace.py.
	svc := template.New()
	ctx := map[string]any{
		"host": map[string]any{
			"name":     "test_device",
			"hostname": "192.168.1.1",
			"platform": "ios",
			"groups":   []any{"routers", "core"},
			"data": map[string]any{
				"contact":  "admin@example.com",
				"location": map[string]any{"building": "HQ"},
			},
		},
	}

	tests := []struct {
		tmpl string
		want string
	}{
		{"hi {{ host.name }}", "hi test_device"},
		{"{{ host.hostname }}", "192.168.1.1"},
		{"{{ host.platform }}", "ios"},
		{"{{ host.groups[0] }}", "routers"},
		{"{{ host.groups[1] }}", "core"},
		{"{{ host.data.contact }}", "admin@example.com"},
		{"{{ host.data.location.building }}", "HQ"},
	}
	for _, tt := range tests {
		got, err := svc.Render(tt.tmpl, ctx)
		if err != nil {
			t.Fatalf("Render(%q): %v", tt.tmpl, err)
		}
		if got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestRender_VariablePrecedenceStyleLookup(t *testing.T) {
	// Spec S2: {{ t }} resolved against whatever value the caller placed
	// under "t" in the device context (precedence is the vars.Store's job).
	svc := template.New()
	got, err := svc.Render("{{ t }}", map[string]any{"t": 60})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "60" {
		t.Errorf("Render = %q, want %q", got, "60")
	}
}

func TestRender_FilterPipe(t *testing.T) {
	svc := template.New()
	got, err := svc.Render("{{ name | upper }}", map[string]any{"name": "r1"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "R1" {
		t.Errorf("Render = %q, want R1", got)
	}
}

func TestRender_ForLoop(t *testing.T) {
	svc := template.New()
	got, err := svc.Render("{% for g in host.groups %}[{{ g }}]{% endfor %}", map[string]any{
		"host": map[string]any{"groups": []any{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "[a][b]" {
		t.Errorf("Render = %q, want [a][b]", got)
	}
}

func TestRender_IfElse(t *testing.T) {
	svc := template.New()
	const tmpl = "{% if ok %}yes{% else %}no{% endif %}"

	got, err := svc.Render(tmpl, map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "yes" {
		t.Errorf("Render(true) = %q, want yes", got)
	}

	got, err = svc.Render(tmpl, map[string]any{"ok": false})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "no" {
		t.Errorf("Render(false) = %q, want no", got)
	}
}

func TestCompile_CacheHitsSameInstance(t *testing.T) {
	svc := template.New()
	const s = "{{ host.name }}"

	a, err := svc.Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b, err := svc.Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if a != b {
		t.Error("expected cache hit to return the same *CompiledTemplate")
	}
}

func TestCompile_SyntaxFault(t *testing.T) {
	svc := template.New()
	_, err := svc.Compile("{{ host.name")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var valErr *template.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestResolveToBool(t *testing.T) {
	svc := template.New()

	got, err := svc.ResolveToBool(true, nil)
	if err != nil || got != true {
		t.Errorf("ResolveToBool(true) = %v, %v", got, err)
	}

	got, err = svc.ResolveToBool("yes", nil)
	if err != nil || got != true {
		t.Errorf("ResolveToBool(\"yes\") = %v, %v", got, err)
	}

	got, err = svc.ResolveToBool("{{ flag }}", map[string]any{"flag": "on"})
	if err != nil || got != true {
		t.Errorf("ResolveToBool template = %v, %v", got, err)
	}
}
