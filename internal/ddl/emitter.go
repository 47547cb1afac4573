// Package ddl renders a compiled mapping as a PostgreSQL provisioning script
// and checks scripts with the PostgreSQL parser.
package ddl

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/logger"
)

// DefaultDatabase is the database the schema owner may connect to.
const DefaultDatabase = "horizon"

//go:embed templates/schema.sql.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"ident":       ir.QuoteIdentifier,
	"idents":      quoteIdentifiers,
	"literal":     Literal,
	"comment":     Comment,
	"commentLine": CommentLine,
	"enableRLS":   ir.EnableRLSSQL,
	"last": func(i int, columns []*ir.Column) bool {
		return i == len(columns)-1
	},
}).ParseFS(tmplFS, "templates/schema.sql.tmpl"))

// Options configures script generation.
type Options struct {
	// Database is granted CONNECT to the schema owner. Empty means
	// DefaultDatabase.
	Database string

	// OwnerPassword is the password of the schema owner. Empty means the
	// schema name.
	OwnerPassword string
}

type scriptData struct {
	*ir.Mapping
	Database      string
	OwnerPassword string
	Catalog       string
}

// Generate renders the provisioning script of m. The script is rendered in
// full before it is returned; on error nothing is returned.
func Generate(m *ir.Mapping, opts Options) (string, error) {
	catalog, err := CatalogJSON(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}

	data := scriptData{
		Mapping:       m,
		Database:      opts.Database,
		OwnerPassword: opts.OwnerPassword,
		Catalog:       catalog,
	}
	if data.Database == "" {
		data.Database = DefaultDatabase
	}
	if data.OwnerPassword == "" {
		data.OwnerPassword = m.Schema
	}

	for _, t := range m.Tables {
		if t.Grant == nil {
			return "", fmt.Errorf("table %s has no grant", t.Name)
		}
		if t.RLSEnabled && t.Policy == nil {
			return "", fmt.Errorf("table %s enables row level security without a policy", t.Name)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "schema.sql.tmpl", data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	logger.Get().Debug("Generated script", "tables", len(m.Tables), "roles", len(m.Roles), "bytes", buf.Len())
	return buf.String(), nil
}

func quoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ir.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ",")
}
