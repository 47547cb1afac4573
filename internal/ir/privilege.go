package ir

import (
	"fmt"
	"strings"
)

// Privilege is a GRANT on one object.
type Privilege struct {
	ObjectType string   `json:"object_type"` // TABLE
	ObjectName string   `json:"object_name"`
	Privileges []string `json:"privileges"` // SELECT, ...
	Grantees   []string `json:"grantees"`
}

// GenerateSQL renders the GRANT statement.
func (p *Privilege) GenerateSQL() string {
	grantees := make([]string, len(p.Grantees))
	for i, g := range p.Grantees {
		grantees[i] = QuoteIdentifier(g)
	}
	return fmt.Sprintf("GRANT %s ON %s %s TO %s;",
		strings.Join(p.Privileges, ", "),
		p.ObjectType,
		QuoteIdentifier(p.ObjectName),
		strings.Join(grantees, ","))
}
