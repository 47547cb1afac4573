package ir

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableAddColumnIsIdempotent(t *testing.T) {
	table := NewTable("widget", "get_widgets_widget_id", "/widgets/{widget_id}/", "Get a widget")

	first := &Column{Name: "widget_id", Identifier: "widget_id", DataType: TypeInteger, Required: true, Path: true}
	if !table.AddColumn(first) {
		t.Fatal("first AddColumn should succeed")
	}
	if table.AddColumn(&Column{Name: "widget_id", Identifier: "widget_id", DataType: TypeBigint}) {
		t.Error("second AddColumn with the same name should be a no-op")
	}
	table.AddColumn(&Column{Name: "name", Identifier: "name", DataType: TypeVarchar, Required: true})

	got, _ := table.Column("widget_id")
	if got != first {
		t.Errorf("widget_id column replaced by later insert")
	}

	var names []string
	for _, c := range table.Columns() {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"widget_id", "name"}, names); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
	if n := len(table.PathColumns()); n != 1 {
		t.Errorf("PathColumns() returned %d columns, want 1", n)
	}
	if table.PrimaryKey() != nil {
		t.Error("no primary key expected before one is marked")
	}
}

func TestColumnSQL(t *testing.T) {
	tests := []struct {
		name           string
		column         Column
		wantType       string
		wantConstraint string
	}{
		{"varchar gets length", Column{DataType: TypeVarchar}, "varchar(4000)", ""},
		{"required", Column{DataType: TypeInteger, Required: true}, "integer", "NOT NULL"},
		{"primary wins over required", Column{DataType: TypeBigint, Required: true, Primary: true}, "bigint", "PRIMARY KEY"},
		{"double precision", Column{DataType: TypeDoublePrecision}, "double precision", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.column.TypeSQL(); got != tt.wantType {
				t.Errorf("TypeSQL() = %q, want %q", got, tt.wantType)
			}
			if got := tt.column.ConstraintSQL(); got != tt.wantConstraint {
				t.Errorf("ConstraintSQL() = %q, want %q", got, tt.wantConstraint)
			}
		})
	}
}

func TestTableMarshalJSONIncludesColumns(t *testing.T) {
	table := NewTable("status", "get_status", "/status/", "")
	table.AddColumn(&Column{Name: "players", Identifier: "players", DataType: TypeInteger})

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"columns":[{"name":"players"`) {
		t.Errorf("columns missing from JSON: %s", data)
	}
}

func TestPrivilegeGenerateSQL(t *testing.T) {
	p := &Privilege{ObjectType: "TABLE", ObjectName: "chr_asset", Privileges: []string{"SELECT"}, Grantees: []string{"Director", "CEO"}}
	want := "GRANT SELECT ON TABLE chr_asset TO Director,CEO;"
	if got := p.GenerateSQL(); got != want {
		t.Errorf("GenerateSQL() = %q, want %q", got, want)
	}
}

func TestRLSPolicyGenerateSQL(t *testing.T) {
	p := &RLSPolicy{
		Name:  "chr_asset",
		Table: "chr_asset",
		Roles: []string{"esi_character"},
		Using: "auth_character_id = current_setting('character_id')::INTEGER",
	}
	want := "CREATE POLICY chr_asset ON chr_asset TO esi_character USING (auth_character_id = current_setting('character_id')::INTEGER);"
	if got := p.GenerateSQL(); got != want {
		t.Errorf("GenerateSQL() = %q, want %q", got, want)
	}
	if got := EnableRLSSQL("chr_asset"); got != "ALTER TABLE chr_asset ENABLE ROW LEVEL SECURITY;" {
		t.Errorf("EnableRLSSQL() = %q", got)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{"simple lowercase", "tablename", "tablename"},
		{"mixed case role folds", "CEO", "CEO"},
		{"reserved word", "order", `"order"`},
		{"reserved word any case", "User", `"User"`},
		{"already quoted", `"from"`, `"from"`},
		{"starts with digit", "1table", `"1table"`},
		{"contains dash", "if-none-match", `"if-none-match"`},
		{"embedded quote escaped", `we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteIdentifier(tt.identifier); got != tt.want {
				t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}
