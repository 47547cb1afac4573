// Package ir is the compiled model of an API document: one Table per GET
// operation with its columns and access policy, gathered in a Mapping.
package ir

import (
	"encoding/json"
	"fmt"

	"github.com/reaper-esi/esi2ddl/internal/ordered"
)

const (
	// MaxTableNameLength bounds compiled table names.
	MaxTableNameLength = 30

	// MaxColumnIdentifierLength bounds compiled column identifiers.
	MaxColumnIdentifierLength = 31

	// VarcharLength is the length qualifier emitted for variable-length text.
	VarcharLength = 4000
)

// SQL column types produced by the type mapper.
const (
	TypeDate            = "date"
	TypeTimestamp       = "timestamp"
	TypeVarchar         = "varchar"
	TypeInteger         = "integer"
	TypeBigint          = "bigint"
	TypeBoolean         = "boolean"
	TypeFloat           = "float"
	TypeDoublePrecision = "double precision"
)

// Mapping is the result of compiling one document.
type Mapping struct {
	Title         string   `json:"title"`
	Version       string   `json:"version"`
	Description   string   `json:"description"`
	Schema        string   `json:"schema"`
	ProtectedRole string   `json:"protected_role"`
	PublicRole    string   `json:"public_role"`
	Roles         []string `json:"roles"` // distinct, first-seen order
	Tables        []*Table `json:"tables"`
}

// Table returns the table compiled from operationID, or nil.
func (m *Mapping) Table(operationID string) *Table {
	for _, t := range m.Tables {
		if t.Operation == operationID {
			return t
		}
	}
	return nil
}

// Table is the relational image of one GET operation.
type Table struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Operation   string `json:"operation"`
	Path        string `json:"path"`

	// RequiredRoles is nil when rows are scoped to the authenticated caller,
	// and a non-empty list when rows are scoped to the caller's organization.
	RequiredRoles []string `json:"required_roles,omitempty"`
	Protected     bool     `json:"protected"`
	Primitive     bool     `json:"primitive"`

	Grant      *Privilege `json:"grant,omitempty"`
	RLSEnabled bool       `json:"rls_enabled"`
	Policy     *RLSPolicy `json:"policy,omitempty"`

	columns ordered.Map[*Column]
}

// NewTable creates an empty table.
func NewTable(name, operation, path, description string) *Table {
	return &Table{
		Name:        name,
		Operation:   operation,
		Path:        path,
		Description: description,
	}
}

// AddColumn appends c unless a column with the same semantic name exists.
// It reports whether c was added.
func (t *Table) AddColumn(c *Column) bool {
	return t.columns.SetIfAbsent(c.Name, c)
}

// Column returns the column with the given semantic name.
func (t *Table) Column(name string) (*Column, bool) {
	return t.columns.Get(name)
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []*Column {
	return t.columns.Values()
}

// PathColumns returns the columns sourced from URL path segments.
func (t *Table) PathColumns() []*Column {
	var cols []*Column
	for _, c := range t.columns.Values() {
		if c.Path {
			cols = append(cols, c)
		}
	}
	return cols
}

// PrimaryKey returns the primary column, or nil.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.columns.Values() {
		if c.Primary {
			return c
		}
	}
	return nil
}

// MarshalJSON includes the ordered columns alongside the exported fields.
func (t *Table) MarshalJSON() ([]byte, error) {
	type plain Table
	return json.Marshal(struct {
		*plain
		Columns []*Column `json:"columns"`
	}{(*plain)(t), t.Columns()})
}

// OrganizationScoped reports whether visible rows are keyed by organization
// membership rather than by the caller's identity.
func (t *Table) OrganizationScoped() bool {
	return t.RequiredRoles != nil
}

// Column is one column of a Table.
type Column struct {
	Name        string `json:"name"`       // semantic name, prefixed by nesting
	Identifier  string `json:"identifier"` // compiled SQL identifier
	DataType    string `json:"data_type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Path        bool   `json:"path,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
}

// TypeSQL renders the column type with its length qualifier.
func (c *Column) TypeSQL() string {
	if c.DataType == TypeVarchar {
		return fmt.Sprintf("%s(%d)", TypeVarchar, VarcharLength)
	}
	return c.DataType
}

// ConstraintSQL renders the column qualifier: PRIMARY KEY wins over NOT NULL.
func (c *Column) ConstraintSQL() string {
	switch {
	case c.Primary:
		return "PRIMARY KEY"
	case c.Required:
		return "NOT NULL"
	default:
		return ""
	}
}
