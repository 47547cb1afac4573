package compiler

import (
	"slices"

	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/swagger"
)

const (
	// DefaultRole is required when an operation declares the role extension
	// without listing any role.
	DefaultRole = "CEO"

	// CallerColumn holds the identifier of the authenticated caller on
	// identity-scoped tables.
	CallerColumn = "auth_character_id"

	// OrganizationColumn is compared against the session organization on
	// organization-scoped tables.
	OrganizationColumn = "corporation_id"

	callerColumnDescription = "Authenticated Character Id"
)

// extractTable builds the table of one GET operation. It returns the roles the
// operation requires so the caller can merge them into the global role set.
func extractTable(doc *swagger.Document, apiPath string, op *swagger.Operation) (*ir.Table, []string, error) {
	name, err := TableName(apiPath)
	if err != nil {
		return nil, nil, err
	}

	table := ir.NewTable(name, op.OperationID, apiPath, op.Summary)
	table.RequiredRoles = expandRequiredRoles(op.RequiredRoles)

	if err := addParameterColumns(doc, table, op.Parameters); err != nil {
		return nil, nil, err
	}

	schema := op.SuccessSchema()
	if schema == nil {
		return nil, nil, errorf(ErrMissingResponseSchema, "")
	}
	if err := Flatten(schema, table); err != nil {
		return nil, nil, err
	}

	inferPrimaryKey(table, schema)
	return table, table.RequiredRoles, nil
}

// expandRequiredRoles turns the role extension into the table's required
// roles. An absent extension stays nil; an empty one requires DefaultRole.
func expandRequiredRoles(roles *[]string) []string {
	if roles == nil {
		return nil
	}
	if len(*roles) == 0 {
		return []string{DefaultRole}
	}
	return slices.Clone(*roles)
}

func addParameterColumns(doc *swagger.Document, table *ir.Table, params []*swagger.Parameter) error {
	for _, p := range params {
		switch {
		case p == nil:
			continue

		case p.IsToken():
			table.Protected = true
			if table.OrganizationScoped() {
				continue
			}
			caller, ok := doc.Parameters[swagger.CharacterIDParameter]
			if !ok || caller == nil {
				return errorf(ErrParameterResolution, "%s requires shared parameter %q",
					swagger.TokenParameterRef, swagger.CharacterIDParameter)
			}
			if err := addColumn(table, CallerColumn, caller.Type, caller.Format, true, callerColumnDescription, false); err != nil {
				return err
			}

		case p.IsRef():
			name := p.RefName()
			shared, ok := doc.Parameters[name]
			if !ok || shared == nil {
				return errorf(ErrParameterResolution, "reference %q", p.Ref)
			}
			if err := addParameterColumn(table, name, shared); err != nil {
				return err
			}

		default:
			if err := addParameterColumn(table, p.Name, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// addParameterColumn adds required parameters only.
func addParameterColumn(table *ir.Table, name string, p *swagger.Parameter) error {
	if !p.Required {
		return nil
	}
	return addColumn(table, name, p.Type, p.Format, true, p.Description, p.InPath())
}

// inferPrimaryKey marks the only path column primary when the response is a
// single object.
func inferPrimaryKey(table *ir.Table, schema *swagger.Schema) {
	if schema.Type != "object" {
		return
	}
	if cols := table.PathColumns(); len(cols) == 1 {
		cols[0].Primary = true
	}
}
