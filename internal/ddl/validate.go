package ddl

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Validate parses script with the PostgreSQL parser.
func Validate(script string) error {
	result, err := pg_query.Parse(script)
	if err != nil {
		return fmt.Errorf("generated script does not parse: %w", err)
	}
	if len(result.Stmts) == 0 {
		return fmt.Errorf("generated script contains no statements")
	}
	return nil
}

// Split returns the statements of script, trimmed, in order.
func Split(script string) ([]string, error) {
	statements, err := pg_query.SplitWithParser(script, true) // trimSpace = true
	if err != nil {
		return nil, fmt.Errorf("failed to split script: %w", err)
	}
	return statements, nil
}
