package ddl

import (
	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/ordered"
)

// Catalog type markers.
const (
	CatalogTypeObject    = "object"
	CatalogTypePrimitive = "primitive"
)

// Catalog is the operation lookup stored in swagger_mapping.mapping. Runtime
// code uses it to turn an API response into rows of the right table.
type Catalog struct {
	Title       string                          `json:"title"`
	Version     string                          `json:"version"`
	Description string                          `json:"description"`
	Operations  *ordered.Map[*CatalogOperation] `json:"operations"`
}

// CatalogOperation maps one operation to its table.
type CatalogOperation struct {
	Table  string               `json:"table"`
	Type   string               `json:"type"`
	Fields *ordered.Map[string] `json:"fields"` // semantic name -> column identifier, quoted as in CREATE TABLE
	Key    []string             `json:"key,omitempty"`
}

// BuildCatalog collects the catalog of a compiled mapping, in table order.
func BuildCatalog(m *ir.Mapping) *Catalog {
	catalog := &Catalog{
		Title:       m.Title,
		Version:     m.Version,
		Description: m.Description,
		Operations:  ordered.New[*CatalogOperation](),
	}

	for _, t := range m.Tables {
		op := &CatalogOperation{
			Table:  t.Name,
			Type:   CatalogTypeObject,
			Fields: ordered.New[string](),
		}
		if t.Primitive {
			op.Type = CatalogTypePrimitive
		}
		for _, c := range t.Columns() {
			if c.Path {
				op.Key = append(op.Key, c.Name)
			}
			op.Fields.Set(c.Name, ir.QuoteIdentifier(c.Identifier))
		}
		catalog.Operations.Set(t.Operation, op)
	}
	return catalog
}

// CatalogJSON encodes the catalog of m.
func CatalogJSON(m *ir.Mapping) (string, error) {
	data, err := ordered.Marshal(BuildCatalog(m))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
