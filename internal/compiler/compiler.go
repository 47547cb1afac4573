// Package compiler turns the GET operations of an API document into the
// tables, columns and access policies of an ir.Mapping.
package compiler

import (
	"github.com/reaper-esi/esi2ddl/internal/ignore"
	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/logger"
	"github.com/reaper-esi/esi2ddl/internal/swagger"
)

// Options configures a compilation.
type Options struct {
	// Schema is the target schema, also used as its owning user.
	Schema string

	// ProtectedRole reads identity-scoped tables; PublicRole reads
	// unprotected tables.
	ProtectedRole string
	PublicRole    string

	// Session settings holding the organization and caller identifiers that
	// row-level security policies compare against.
	OrganizationSetting string
	CallerSetting       string

	// Ignore skips operations by path or operation id. nil keeps everything.
	Ignore *ignore.Config
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Schema:              "esi",
		ProtectedRole:       "esi_character",
		PublicRole:          "esi_public",
		OrganizationSetting: OrganizationColumn,
		CallerSetting:       "character_id",
	}
}

// Compile compiles every GET operation of doc, in document order. The first
// error aborts compilation.
func Compile(doc *swagger.Document, opts Options) (*ir.Mapping, error) {
	log := logger.Get()

	mapping := &ir.Mapping{
		Title:         doc.Info.Title,
		Version:       doc.Info.Version,
		Description:   doc.Info.Description,
		Schema:        opts.Schema,
		ProtectedRole: opts.ProtectedRole,
		PublicRole:    opts.PublicRole,
	}

	var roles roleSet
	seen := make(map[string]string)

	for apiPath, item := range doc.Paths.All() {
		if item == nil || item.Get == nil {
			continue
		}
		op := item.Get

		if opts.Ignore.ShouldIgnore(apiPath, op.OperationID) {
			log.Debug("Skipping ignored operation", "operation", op.OperationID, "path", apiPath)
			continue
		}

		table, tableRoles, err := extractTable(doc, apiPath, op)
		if err != nil {
			return nil, locate(err, op.OperationID, apiPath)
		}
		if other, dup := seen[table.Name]; dup {
			return nil, locate(errorf(ErrDuplicateTable, "%q is also produced by operation %s", table.Name, other),
				op.OperationID, apiPath)
		}
		seen[table.Name] = op.OperationID

		applyPolicy(table, opts)
		roles.add(tableRoles...)
		mapping.Tables = append(mapping.Tables, table)

		log.Debug("Compiled table",
			"table", table.Name,
			"operation", op.OperationID,
			"columns", len(table.Columns()),
			"protected", table.Protected)
	}

	mapping.Roles = roles.list
	log.Debug("Compilation complete", "tables", len(mapping.Tables), "roles", len(mapping.Roles))
	return mapping, nil
}

// roleSet keeps distinct roles in first-seen order.
type roleSet struct {
	list []string
	seen map[string]bool
}

func (s *roleSet) add(roles ...string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	for _, r := range roles {
		if !s.seen[r] {
			s.seen[r] = true
			s.list = append(s.list, r)
		}
	}
}
