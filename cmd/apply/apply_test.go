package apply

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
)

const fixture = "../../testdata/esi_subset.json"

func TestApplyCommand(t *testing.T) {
	if ApplyCmd.Use != "apply" {
		t.Errorf("Expected Use to be 'apply', got '%s'", ApplyCmd.Use)
	}
	if ApplyCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if ApplyCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	flags := ApplyCmd.Flags()

	for _, name := range []string{"db", "user", "password", "file", "url", "sql", "dry-run", "schema", "roles"} {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected --%s flag to be defined", name)
		}
	}

	defaults := map[string]string{
		"host":             "localhost",
		"port":             "5432",
		"sslmode":          "prefer",
		"application-name": "esi2ddl",
		"dry-run":          "false",
	}
	for name, want := range defaults {
		f := flags.Lookup(name)
		if f == nil {
			t.Errorf("Expected --%s flag to be defined", name)
			continue
		}
		if f.DefValue != want {
			t.Errorf("Expected default %s to be '%s', got '%s'", name, want, f.DefValue)
		}
	}
}

func TestPrintStatements(t *testing.T) {
	var buf bytes.Buffer
	err := PrintStatements(&buf, []string{"CREATE ROLE a", "", "  CREATE ROLE b;  "})
	if err != nil {
		t.Fatalf("PrintStatements() error = %v", err)
	}
	expected := "CREATE ROLE a;\nCREATE ROLE b;\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nActual:\n%s", expected, buf.String())
	}
}

func TestApplyDryRun(t *testing.T) {
	t.Cleanup(ResetFlags)

	var buf bytes.Buffer
	ApplyCmd.SetOut(&buf)
	t.Cleanup(func() { ApplyCmd.SetOut(nil) })

	ApplyCmd.SetContext(util.WithConfig(context.Background(), config.Default(), ""))
	if err := ApplyCmd.ParseFlags([]string{"--file", fixture, "--ignore-file", "", "--dry-run"}); err != nil {
		t.Fatal(err)
	}
	if err := ApplyCmd.RunE(ApplyCmd, nil); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "-- EVE Swagger Interface v1.33") {
		t.Errorf("dry run should start with the script header, got:\n%.200s", out)
	}
	for _, fragment := range []string{
		"CREATE SCHEMA AUTHORIZATION esi;",
		"ALTER TABLE chr_asset ENABLE ROW LEVEL SECURITY;",
		"INSERT INTO swagger_mapping",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("dry run output missing %q", fragment)
		}
	}
}

func TestLoadScriptFromSQLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esi.sql")
	if err := os.WriteFile(path, []byte("CREATE ROLE reader;\nCREATE SCHEMA esi;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	script, catalog, err := loadScript(context.Background(), config.Default(), path)
	if err != nil {
		t.Fatalf("loadScript() error = %v", err)
	}
	if !strings.Contains(script, "CREATE SCHEMA esi;") {
		t.Errorf("unexpected script: %q", script)
	}
	if catalog != "" {
		t.Errorf("a hand written script has no catalog, got %q", catalog)
	}

	if err := os.WriteFile(path, []byte("CREATE TABLE ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadScript(context.Background(), config.Default(), path); err == nil {
		t.Error("expected an error for a script that does not parse")
	}
}

func TestLoadScriptCompilesCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Source.File = fixture
	cfg.IgnoreFile = ""

	script, catalog, err := loadScript(context.Background(), cfg, "")
	if err != nil {
		t.Fatalf("loadScript() error = %v", err)
	}
	if !cfg.Script.Validate {
		t.Error("compiled scripts are always validated before apply")
	}
	if !strings.Contains(catalog, `"get_killmails_killmail_id_killmail_hash":{"table":"km_killmail_hash"`) {
		t.Errorf("catalog missing killmail operation: %s", catalog)
	}
	if !strings.Contains(script, ddl.Literal(catalog)) {
		t.Error("script should insert the same catalog into swagger_mapping")
	}
}

func TestMappingTable(t *testing.T) {
	tests := []struct {
		schema string
		want   string
	}{
		{"esi", "esi.swagger_mapping"},
		{"ESI", "ESI.swagger_mapping"},
		{"order", `"order".swagger_mapping`},
	}
	for _, tt := range tests {
		if got := mappingTable(tt.schema); got != tt.want {
			t.Errorf("mappingTable(%q) = %q, want %q", tt.schema, got, tt.want)
		}
	}
}

func TestApplyRequiresConnection(t *testing.T) {
	t.Cleanup(ResetFlags)
	t.Setenv("PGDATABASE", "")
	t.Setenv("PGUSER", "")

	ApplyCmd.SetContext(util.WithConfig(context.Background(), config.Default(), ""))
	if err := ApplyCmd.ParseFlags([]string{"--file", fixture, "--ignore-file", ""}); err != nil {
		t.Fatal(err)
	}
	err := ApplyCmd.RunE(ApplyCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "database name is required") {
		t.Errorf("expected missing database error, got %v", err)
	}
}
