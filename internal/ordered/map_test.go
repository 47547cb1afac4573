package ordered

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestMapKeepsJSONKeyOrder(t *testing.T) {
	var m Map[int]
	if err := json.Unmarshal([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"zeta", "alpha", "mid"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, ok := m.Get("alpha"); !ok || v != 2 {
		t.Errorf("Get(alpha) = %d, %v; want 2, true", v, ok)
	}
}

func TestMapKeepsYAMLKeyOrder(t *testing.T) {
	doc := `
zeta:
  name: z
alpha:
  name: a
`
	type entry struct {
		Name string `yaml:"name"`
	}
	var m Map[entry]
	if err := yaml.Unmarshal([]byte(doc), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha"}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.Get("zeta"); v.Name != "z" {
		t.Errorf("zeta.name = %q, want z", v.Name)
	}
}

func TestMapRejectsNonObject(t *testing.T) {
	var m Map[int]
	if err := json.Unmarshal([]byte(`[1, 2]`), &m); err == nil {
		t.Error("expected error decoding array into map")
	}
	if err := yaml.Unmarshal([]byte(`- 1`), &m); err == nil {
		t.Error("expected error decoding YAML sequence into map")
	}
}

func TestMapSetIfAbsentKeepsFirstValue(t *testing.T) {
	m := New[string]()
	if !m.SetIfAbsent("a", "first") {
		t.Fatal("first insert should succeed")
	}
	if m.SetIfAbsent("a", "second") {
		t.Error("second insert should be a no-op")
	}
	if v, _ := m.Get("a"); v != "first" {
		t.Errorf("a = %q, want first", v)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMapMarshalJSON(t *testing.T) {
	m := New[any]()
	m.Set("b", "<b>")
	m.Set("a", []string{"x"})
	m.Set("b", "<bold>")

	got, err := Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"b":"<bold>","a":["x"]}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestMapAllStopsEarly(t *testing.T) {
	m := New[int]()
	m.Set("one", 1)
	m.Set("two", 2)
	m.Set("three", 3)

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "two" {
			break
		}
	}
	if diff := cmp.Diff([]string{"one", "two"}, seen); diff != "" {
		t.Errorf("iteration mismatch (-want +got):\n%s", diff)
	}
}
