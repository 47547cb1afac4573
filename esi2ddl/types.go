package esi2ddl

import (
	"github.com/reaper-esi/esi2ddl/internal/compiler"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
	"github.com/reaper-esi/esi2ddl/internal/ir"
)

// Re-export important types for external consumption

// Mapping is the compiled model of one API document.
type Mapping = ir.Mapping

// Table is the relational image of one GET operation.
type Table = ir.Table

// Column represents a table column.
type Column = ir.Column

// RLSPolicy represents a row-level security policy.
type RLSPolicy = ir.RLSPolicy

// Privilege represents the grant of a table.
type Privilege = ir.Privilege

// Catalog is the operation lookup stored in swagger_mapping.
type Catalog = ddl.Catalog

// CatalogOperation maps one operation to its table.
type CatalogOperation = ddl.CatalogOperation

// CompileError locates a compilation failure by operation and path.
type CompileError = compiler.Error

// Compilation failure kinds, for use with errors.Is.
var (
	ErrUnsupportedSchemaType = compiler.ErrUnsupportedSchemaType
	ErrUnsupportedType       = compiler.ErrUnsupportedType
	ErrIdentifierTooLong     = compiler.ErrIdentifierTooLong
	ErrParameterResolution   = compiler.ErrParameterResolution
	ErrMissingResponseSchema = compiler.ErrMissingResponseSchema
	ErrDuplicateTable        = compiler.ErrDuplicateTable
)

// BuildCatalog returns the catalog of a compiled mapping.
func BuildCatalog(m *Mapping) *Catalog {
	return ddl.BuildCatalog(m)
}
