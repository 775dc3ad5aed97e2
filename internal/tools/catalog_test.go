package tools

import (
	"strings"
	"testing"
)

func TestCatalogCoversExecutor(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	registered := make(map[string]bool)
	for _, name := range e.Names() {
		registered[name] = true
	}

	descriptors := Catalog()
	if len(descriptors) != 13 {
		t.Errorf("expected 13 tools, got %d", len(descriptors))
	}
	for _, d := range descriptors {
		if !registered[d.Name] {
			t.Errorf("catalog tool %q has no handler", d.Name)
		}
	}
	if len(registered) != len(descriptors) {
		t.Errorf("executor has %d handlers, catalog has %d", len(registered), len(descriptors))
	}
}

func TestRenderDefinitions(t *testing.T) {
	out := RenderDefinitions(Catalog())

	for _, want := range []string{
		"Tool: add_task",
		"Description: Create a new task",
		"Input Schema: {",
		"---",
		"Tool: get_deployment_blueprint",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered definitions missing %q", want)
		}
	}
	if strings.Count(out, "---") != 13 {
		t.Errorf("expected 13 separators, got %d", strings.Count(out, "---"))
	}
}
