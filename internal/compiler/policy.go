package compiler

import (
	"fmt"
	"slices"

	"github.com/lib/pq"
	"github.com/reaper-esi/esi2ddl/internal/ir"
)

// applyPolicy sets the grant and row-level security of a table:
//   - unprotected tables are readable by the public role
//   - organization-scoped tables are readable by their required roles, for
//     rows of the session organization
//   - identity-scoped tables are readable by the protected role, for rows of
//     the session caller
func applyPolicy(t *ir.Table, opts Options) {
	grant := &ir.Privilege{
		ObjectType: "TABLE",
		ObjectName: t.Name,
		Privileges: []string{"SELECT"},
	}
	t.Grant = grant

	if !t.Protected {
		grant.Grantees = []string{opts.PublicRole}
		return
	}

	policy := &ir.RLSPolicy{Name: t.Name, Table: t.Name}
	if t.OrganizationScoped() {
		grant.Grantees = slices.Clone(t.RequiredRoles)
		policy.Roles = slices.Clone(t.RequiredRoles)
		policy.Using = sessionPredicate(OrganizationColumn, opts.OrganizationSetting)
	} else {
		grant.Grantees = []string{opts.ProtectedRole}
		policy.Roles = []string{opts.ProtectedRole}
		policy.Using = sessionPredicate(CallerColumn, opts.CallerSetting)
	}
	t.RLSEnabled = true
	t.Policy = policy
}

func sessionPredicate(column, setting string) string {
	return fmt.Sprintf("%s = current_setting(%s)::INTEGER", ir.QuoteIdentifier(column), pq.QuoteLiteral(setting))
}
