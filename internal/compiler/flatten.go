package compiler

import (
	"strings"

	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/swagger"
)

// node is a response schema classified by shape.
type node interface {
	flatten(t *ir.Table, prefix string) error
}

// objectNode contributes one column per scalar property and recurses into
// nested objects.
type objectNode struct {
	schema *swagger.Schema
}

// arrayNode is transparent: its items are flattened with the same prefix.
type arrayNode struct {
	items *swagger.Schema
}

// scalarNode is a leaf reached from the top of a response schema, possibly
// through arrays. Only numeric leaves are valid there.
type scalarNode struct {
	schema *swagger.Schema
}

func classify(s *swagger.Schema) node {
	switch s.Type {
	case "object":
		return objectNode{schema: s}
	case "array":
		return arrayNode{items: s.Items}
	default:
		return scalarNode{schema: s}
	}
}

// Flatten adds the columns described by a response schema to t.
func Flatten(s *swagger.Schema, t *ir.Table) error {
	if s == nil {
		return errorf(ErrUnsupportedSchemaType, "no schema")
	}
	return classify(s).flatten(t, "")
}

func (n objectNode) flatten(t *ir.Table, prefix string) error {
	if n.schema.Properties == nil {
		return nil
	}
	for name, prop := range n.schema.Properties.All() {
		if prop == nil {
			return errorf(ErrUnsupportedSchemaType, "property %q of %s has no schema", name, n.schema.Label())
		}
		if prop.Type == "object" {
			if err := (objectNode{schema: prop}).flatten(t, prefix+name); err != nil {
				return err
			}
			continue
		}
		if err := addColumn(t, prefix+name, prop.Type, prop.Format, n.schema.IsRequired(name), prop.Description, false); err != nil {
			return err
		}
	}
	return nil
}

func (n arrayNode) flatten(t *ir.Table, prefix string) error {
	if n.items == nil {
		return errorf(ErrUnsupportedSchemaType, "array without items")
	}
	return classify(n.items).flatten(t, prefix)
}

func (n scalarNode) flatten(t *ir.Table, prefix string) error {
	switch n.schema.Type {
	case "integer", "number":
		t.Primitive = true
		return addColumn(t, prefix+primitiveColumnName(t.Name), n.schema.Type, n.schema.Format, false, n.schema.Description, false)
	}
	return errorf(ErrUnsupportedSchemaType, "type %q for %s", n.schema.Type, n.schema.Label())
}

// primitiveColumnName names the single column of a table whose endpoint
// returns bare numbers: the last underscore-separated segment of the table
// name, suffixed with "_id".
func primitiveColumnName(table string) string {
	if i := strings.LastIndex(table, "_"); i >= 0 {
		table = table[i+1:]
	}
	return table + "_id"
}

// addColumn maps the type and appends the column unless the name is taken.
func addColumn(t *ir.Table, name, typ, format string, required bool, description string, path bool) error {
	if _, exists := t.Column(name); exists {
		return nil
	}
	dataType, err := MapType(typ, format)
	if err != nil {
		return withDetail(err, "column "+name)
	}
	t.AddColumn(&ir.Column{
		Name:        name,
		Identifier:  ColumnIdentifier(name),
		DataType:    dataType,
		Required:    required,
		Description: description,
		Path:        path,
	})
	return nil
}
