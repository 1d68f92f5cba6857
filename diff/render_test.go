package diff

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderJSONShape(t *testing.T) {
	changes := []Change{
		{Name: "a", Status: Added, ToVersion: "1.0.0"},
		{Name: "b", Status: Removed, FromVersion: "2.0.0"},
	}
	report := NewReport("v1", "v2", changes)

	data, err := report.RenderJSON()
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed["from_label"] != "v1" || parsed["to_label"] != "v2" {
		t.Fatalf("unexpected labels: %+v", parsed)
	}
	changesField, ok := parsed["changes"].(map[string]any)
	if !ok {
		t.Fatalf("expected changes object, got %T", parsed["changes"])
	}
	if _, ok := changesField["added"]; !ok {
		t.Fatalf("expected added key in changes: %+v", changesField)
	}
}

func TestRenderTerminalOmitsUnchangedByDefault(t *testing.T) {
	changes := []Change{
		{Name: "a", Status: Added, ToVersion: "1.0.0"},
		{Name: "b", Status: Unchanged, ToVersion: "1.0.0"},
	}
	out := NewReport("v1", "v2", changes).RenderTerminal(false, false)
	if strings.Contains(out, "b ") {
		t.Fatalf("expected Unchanged entry to be omitted, got:\n%s", out)
	}
	if !strings.Contains(out, "a 1.0.0") {
		t.Fatalf("expected Added entry present, got:\n%s", out)
	}
}

func TestRenderMarkdownSkipsUnchanged(t *testing.T) {
	changes := []Change{
		{Name: "a", Status: Updated, FromVersion: "1.0.0", ToVersion: "1.1.0"},
		{Name: "b", Status: Unchanged},
	}
	out := NewReport("v1", "v2", changes).RenderMarkdown()
	if strings.Contains(out, "| b |") {
		t.Fatalf("expected Unchanged row to be skipped, got:\n%s", out)
	}
	if !strings.Contains(out, "| ~ | a | 1.0.0 | 1.1.0 |") {
		t.Fatalf("expected updated row, got:\n%s", out)
	}
}
