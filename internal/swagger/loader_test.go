package swagger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const widgetJSON = `{
  "swagger": "2.0",
  "info": {"title": "Widget API", "version": "1.2.3", "description": "Widgets"},
  "paths": {
    "/widgets/{widget_id}/": {
      "get": {
        "operationId": "get_widgets_widget_id",
        "summary": "Get a widget",
        "parameters": [
          {"name": "widget_id", "in": "path", "required": true, "type": "integer", "format": "int32"},
          {"$ref": "#/parameters/token"}
        ],
        "responses": {
          "200": {
            "description": "ok",
            "schema": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "zone": {"type": "string"},
                "name": {"type": "string"}
              }
            }
          }
        },
        "x-required-roles": []
      }
    },
    "/status/": {
      "post": {"operationId": "post_status"}
    }
  },
  "parameters": {
    "token": {"name": "token", "in": "query", "type": "string"},
    "character_id": {"name": "character_id", "in": "path", "required": true, "type": "integer", "format": "int32"}
  }
}`

const widgetYAML = `
swagger: "2.0"
info:
  title: Widget API
  version: 1.2.3
paths:
  /widgets/{widget_id}/:
    get:
      operationId: get_widgets_widget_id
      parameters:
        - name: widget_id
          in: path
          required: true
          type: integer
      responses:
        200:
          description: ok
          schema:
            type: object
            properties:
              zone:
                type: string
              name:
                type: string
`

func TestParseJSON(t *testing.T) {
	doc, err := Parse([]byte(widgetJSON), FormatAuto)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Info.Title != "Widget API" || doc.Info.Version != "1.2.3" {
		t.Errorf("unexpected info: %+v", doc.Info)
	}
	if diff := cmp.Diff([]string{"/widgets/{widget_id}/", "/status/"}, doc.Paths.Keys()); diff != "" {
		t.Errorf("path order mismatch (-want +got):\n%s", diff)
	}

	item, _ := doc.Paths.Get("/widgets/{widget_id}/")
	op := item.Get
	if op == nil {
		t.Fatal("expected GET operation")
	}
	if op.RequiredRoles == nil || len(*op.RequiredRoles) != 0 {
		t.Errorf("RequiredRoles = %v, want present and empty", op.RequiredRoles)
	}
	if !op.Parameters[1].IsToken() {
		t.Errorf("second parameter should be the token reference")
	}

	schema := op.SuccessSchema()
	if schema == nil {
		t.Fatal("expected 200 schema")
	}
	if diff := cmp.Diff([]string{"zone", "name"}, schema.Properties.Keys()); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}
	if !schema.IsRequired("name") || schema.IsRequired("zone") {
		t.Errorf("unexpected required set: %v", schema.Required)
	}

	status, _ := doc.Paths.Get("/status/")
	if status.Get != nil {
		t.Error("POST-only path should have no GET operation")
	}
}

func TestParseYAML(t *testing.T) {
	doc, err := Parse([]byte(widgetYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	item, ok := doc.Paths.Get("/widgets/{widget_id}/")
	if !ok {
		t.Fatalf("missing path, got %v", doc.Paths.Keys())
	}
	if item.Get.RequiredRoles != nil {
		t.Errorf("RequiredRoles = %v, want absent", *item.Get.RequiredRoles)
	}
	schema := item.Get.SuccessSchema()
	if schema == nil {
		t.Fatal("expected 200 schema from integer response key")
	}
	if diff := cmp.Diff([]string{"zone", "name"}, schema.Properties.Keys()); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"broken json", `{"paths": `, FormatJSON},
		{"no paths", `{"info": {"title": "x"}}`, FormatAuto},
		{"yaml scalar", `just a string`, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Parse() error = %v, want ErrMalformedDocument", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"swagger.json", FormatJSON},
		{"api/SPEC.YAML", FormatYAML},
		{"spec.yml", FormatYAML},
		{"https://esi.example/latest/swagger.json?datasource=tranquility", FormatJSON},
		{"https://esi.example/latest/", FormatAuto},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.json")
	if err := os.WriteFile(path, []byte(widgetJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if doc.Paths.Len() != 2 {
		t.Errorf("got %d paths, want 2", doc.Paths.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest/":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			fmt.Fprint(w, widgetJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	doc, err := LoadURL(context.Background(), srv.Client(), srv.URL+"/latest/")
	if err != nil {
		t.Fatalf("LoadURL() error = %v", err)
	}
	if doc.Info.Title != "Widget API" {
		t.Errorf("title = %q", doc.Info.Title)
	}

	if _, err := LoadURL(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}
}
