package ddl

import (
	"strings"
	"testing"
)

func TestValidateGeneratedScripts(t *testing.T) {
	for name, m := range map[string]func() string{
		"unprotected": func() string { s, _ := Generate(widgetMapping(), Options{}); return s },
		"protected":   func() string { s, _ := Generate(corporationMapping(), Options{}); return s },
	} {
		t.Run(name, func(t *testing.T) {
			script := m()
			if script == "" {
				t.Fatal("empty script")
			}
			if err := Validate(script); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateRejectsBrokenScript(t *testing.T) {
	if err := Validate("CREATE TABLE (;"); err == nil {
		t.Error("expected parse error")
	}
	if err := Validate("-- only a comment\n"); err == nil {
		t.Error("expected error for script without statements")
	}
}

func TestSplit(t *testing.T) {
	script := "-- header\nCREATE ROLE a;\n\nCREATE TABLE t\n(\n  x integer\n);\nINSERT INTO t VALUES (E'a;b');\n"

	got, err := Split(script)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d statements, want 3: %q", len(got), got)
	}
	for i, prefix := range []string{"CREATE ROLE a", "CREATE TABLE t", "INSERT INTO t VALUES (E'a;b')"} {
		if !strings.Contains(got[i], prefix) {
			t.Errorf("statement %d = %q, want it to contain %q", i, got[i], prefix)
		}
	}
}
