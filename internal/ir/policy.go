package ir

import (
	"fmt"
	"strings"
)

// RLSPolicy is a row-level-security policy restricting which rows the listed
// roles can see.
type RLSPolicy struct {
	Name  string   `json:"name"`
	Table string   `json:"table"`
	Roles []string `json:"roles,omitempty"`
	Using string   `json:"using"` // USING expression
}

// GenerateSQL renders the CREATE POLICY statement.
func (p *RLSPolicy) GenerateSQL() string {
	stmt := fmt.Sprintf("CREATE POLICY %s ON %s", QuoteIdentifier(p.Name), QuoteIdentifier(p.Table))

	if len(p.Roles) > 0 {
		roles := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			roles[i] = QuoteIdentifier(r)
		}
		stmt += " TO " + strings.Join(roles, ",")
	}

	if p.Using != "" {
		stmt += fmt.Sprintf(" USING (%s)", p.Using)
	}
	return stmt + ";"
}

// EnableRLSSQL renders the statement switching row-level security on.
func EnableRLSSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", QuoteIdentifier(table))
}
